package bulk

import (
	"fmt"
	"time"

	"github.com/plushify/plushify-api/internal/httperr"
)

// Violation names the record and the rule that stopped a batch.
type Violation struct {
	RecordID uint   `json:"record_id"`
	Rule     string `json:"rule"`
	Message  string `json:"message"`
}

func (v *Violation) Error() string {
	return fmt.Sprintf("record %d: %s", v.RecordID, v.Rule)
}

var ruleMessages = map[string]string{
	"record_not_found": "Registro não encontrado.",
	"invalid_state":    "O status atual não permite esta ação.",
	"cancel_too_late":  "O cancelamento exige mais de 24h de antecedência.",
	"delete_forbidden": "Registros confirmados, concluídos ou pagos não podem ser excluídos.",
}

func MessageFor(rule string) string {
	if msg, ok := ruleMessages[rule]; ok {
		return msg
	}
	return "Ação não permitida para este registro."
}

// Validate checks ids in selection order and returns the first violation.
// candidates may come in any order; ids missing from it are violations too.
func Validate(rules RuleSet, action Action, ids []uint, candidates []Candidate, now time.Time) error {
	if len(ids) == 0 {
		return ErrEmptySelection
	}
	rule, ok := rules[action]
	if !ok {
		return ErrUnsupportedAction
	}

	byID := make(map[uint]Candidate, len(candidates))
	for _, c := range candidates {
		byID[c.ID] = c
	}

	for _, id := range ids {
		c, found := byID[id]
		if !found {
			return &Violation{RecordID: id, Rule: "record_not_found", Message: MessageFor("record_not_found")}
		}
		if err := rule(c, now); err != nil {
			code, isBusiness := httperr.AsBusiness(err)
			if !isBusiness {
				return err
			}
			return &Violation{RecordID: id, Rule: code, Message: MessageFor(code)}
		}
	}
	return nil
}
