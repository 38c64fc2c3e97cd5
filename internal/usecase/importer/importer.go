// Package importer loads products, clients and expenses from the same CSV
// and JSON shapes the export pipeline writes. A file is imported whole or
// not at all: any invalid row rejects the batch.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/plushify/plushify-api/internal/audit"
	domainfin "github.com/plushify/plushify-api/internal/domain/finance"
	domaininv "github.com/plushify/plushify-api/internal/domain/inventory"
	"github.com/plushify/plushify-api/internal/export"
	"github.com/plushify/plushify-api/internal/httperr"
	"github.com/plushify/plushify-api/internal/models"
	"github.com/plushify/plushify-api/internal/usecase/finance"
	"github.com/plushify/plushify-api/internal/usecase/inventory"
)

const MaxRows = 5000

var ErrUnknownEntity = errors.New("unknown import entity")

type Entity string

const (
	EntityProducts Entity = "products"
	EntityClients  Entity = "clients"
	EntityExpenses Entity = "expenses"
)

func ParseEntity(s string) (Entity, error) {
	switch e := Entity(strings.ToLower(strings.TrimSpace(s))); e {
	case EntityProducts, EntityClients, EntityExpenses:
		return e, nil
	default:
		return "", ErrUnknownEntity
	}
}

type RowError struct {
	Line  int    `json:"line"`
	Error string `json:"error"`
}

type Result struct {
	Entity   Entity     `json:"entity"`
	Imported int        `json:"imported"`
	Errors   []RowError `json:"errors"`
}

type ClientStore interface {
	CreateClients(ctx context.Context, list []models.Client) error
}

type Importer struct {
	products domaininv.Repository
	clients  ClientStore
	expenses domainfin.Repository
	methods  *finance.PaymentMethods
	audit    *audit.Dispatcher
}

func New(products domaininv.Repository, clients ClientStore, expenses domainfin.Repository, audit *audit.Dispatcher) *Importer {
	return &Importer{
		products: products,
		clients:  clients,
		expenses: expenses,
		methods:  finance.NewPaymentMethods(expenses),
		audit:    audit,
	}
}

// Import reads r in format f (csv or json). Dates are read in loc.
func (im *Importer) Import(ctx context.Context, businessID, userID uint, entity Entity, f export.Format, r io.Reader, loc *time.Location) (*Result, error) {
	if f != export.FormatCSV && f != export.FormatJSON {
		return nil, export.ErrUnsupportedFormat
	}

	var (
		res *Result
		err error
	)
	switch entity {
	case EntityProducts:
		res, err = im.importProducts(ctx, businessID, f, r)
	case EntityClients:
		res, err = im.importClients(ctx, businessID, f, r, loc)
	case EntityExpenses:
		res, err = im.importExpenses(ctx, businessID, f, r, loc)
	default:
		return nil, ErrUnknownEntity
	}
	if err != nil {
		return nil, err
	}

	if res.Imported > 0 {
		im.audit.Dispatch(audit.Event{
			BusinessID: businessID,
			UserID:     &userID,
			Action:     audit.ActionImport,
			Entity:     string(entity),
			Metadata: map[string]any{
				"format":   string(f),
				"imported": res.Imported,
			},
		})
	}
	return res, nil
}

// ----------------------------------------------------
// Produtos
// ----------------------------------------------------

func (im *Importer) importProducts(ctx context.Context, businessID uint, f export.Format, r io.Reader) (*Result, error) {
	inputs, errs, err := decode(f, r, productFromRow, productFromJSON)
	if err != nil {
		return nil, err
	}

	list := make([]models.Product, 0, len(inputs))
	for _, in := range inputs {
		p, err := inventory.BuildProduct(businessID, in.value)
		if err != nil {
			errs = append(errs, RowError{Line: in.line, Error: reason(err)})
			continue
		}
		list = append(list, *p)
	}

	res := &Result{Entity: EntityProducts, Errors: errs}
	if len(errs) > 0 {
		return res, nil
	}
	if err := im.products.CreateProducts(ctx, list); err != nil {
		return nil, err
	}
	res.Imported = len(list)
	return res, nil
}

func productFromRow(row export.Row) (inventory.ProductInput, error) {
	in := inventory.ProductInput{
		Name:     row.Get("name"),
		Category: row.Get("category"),
	}
	var err error
	if in.Stock, err = parseInt(row.Get("stock")); err != nil {
		return in, fmt.Errorf("stock: %w", err)
	}
	if in.MinStock, err = parseInt(row.Get("min_stock")); err != nil {
		return in, fmt.Errorf("min_stock: %w", err)
	}
	if in.Price, err = parseMoney(row.Get("price")); err != nil {
		return in, fmt.Errorf("price: %w", err)
	}
	if b := row.Get("barcode"); b != "" {
		in.Barcode = &b
	}
	return in, nil
}

func productFromJSON(p models.Product) (inventory.ProductInput, error) {
	return inventory.ProductInput{
		Name:     p.Name,
		Category: p.Category,
		Stock:    p.Stock,
		MinStock: p.MinStock,
		Barcode:  p.Barcode,
		Price:    p.Price,
	}, nil
}

// ----------------------------------------------------
// Clientes
// ----------------------------------------------------

func (im *Importer) importClients(ctx context.Context, businessID uint, f export.Format, r io.Reader, loc *time.Location) (*Result, error) {
	fromRow := func(row export.Row) (models.Client, error) {
		c := models.Client{
			Name:  row.Get("name"),
			Phone: row.Get("phone"),
			Email: row.Get("email"),
			Notes: row.Get("notes"),
		}
		if s := row.Get("birth_date"); s != "" {
			d, err := time.ParseInLocation("2006-01-02", s, loc)
			if err != nil {
				return c, fmt.Errorf("birth_date: formato esperado AAAA-MM-DD")
			}
			c.BirthDate = &d
		}
		return c, nil
	}
	fromJSON := func(c models.Client) (models.Client, error) { return c, nil }

	inputs, errs, err := decode(f, r, fromRow, fromJSON)
	if err != nil {
		return nil, err
	}

	list := make([]models.Client, 0, len(inputs))
	for _, in := range inputs {
		c := in.value
		c.ID = 0
		c.BusinessID = businessID
		c.Name = strings.TrimSpace(c.Name)
		if c.Name == "" {
			errs = append(errs, RowError{Line: in.line, Error: "name: obrigatório"})
			continue
		}
		list = append(list, c)
	}

	res := &Result{Entity: EntityClients, Errors: errs}
	if len(errs) > 0 {
		return res, nil
	}
	if err := im.clients.CreateClients(ctx, list); err != nil {
		return nil, err
	}
	res.Imported = len(list)
	return res, nil
}

// ----------------------------------------------------
// Despesas
// ----------------------------------------------------

type expenseRow struct {
	input  finance.CreateExpenseInput
	method string
}

func (im *Importer) importExpenses(ctx context.Context, businessID uint, f export.Format, r io.Reader, loc *time.Location) (*Result, error) {
	fromRow := func(row export.Row) (expenseRow, error) {
		amount, err := parseMoney(row.Get("amount"))
		if err != nil {
			return expenseRow{}, fmt.Errorf("amount: %w", err)
		}
		return expenseRow{
			input: finance.CreateExpenseInput{
				Description: row.Get("description"),
				Category:    row.Get("category"),
				Amount:      amount,
				ExpenseDate: row.Get("expense_date"),
			},
			method: row.Get("payment_method"),
		}, nil
	}
	fromJSON := func(e models.Expense) (expenseRow, error) {
		date := ""
		if !e.ExpenseDate.IsZero() {
			date = e.ExpenseDate.In(loc).Format("2006-01-02")
		}
		return expenseRow{
			input: finance.CreateExpenseInput{
				Description: e.Description,
				Category:    e.Category,
				Amount:      e.Amount,
				ExpenseDate: date,
			},
			method: e.MethodName(),
		}, nil
	}

	inputs, errs, err := decode(f, r, fromRow, fromJSON)
	if err != nil {
		return nil, err
	}

	list := make([]models.Expense, 0, len(inputs))
	methods := make([]string, 0, len(inputs))
	for _, in := range inputs {
		in.value.input.BusinessID = businessID
		e, err := finance.BuildExpense(in.value.input, loc)
		if err != nil {
			errs = append(errs, RowError{Line: in.line, Error: reason(err)})
			continue
		}
		list = append(list, *e)
		methods = append(methods, in.value.method)
	}

	res := &Result{Entity: EntityExpenses, Errors: errs}
	if len(errs) > 0 {
		return res, nil
	}

	// formas de pagamento desconhecidas são criadas
	for i, name := range methods {
		id, err := im.methods.Resolve(ctx, businessID, name)
		if err != nil {
			return nil, err
		}
		list[i].PaymentMethodID = id
	}

	if err := im.expenses.CreateExpenses(ctx, list); err != nil {
		return nil, err
	}
	res.Imported = len(list)
	return res, nil
}

// ----------------------------------------------------
// helpers
// ----------------------------------------------------

type parsed[T any] struct {
	line  int
	value T
}

// decode turns the file into values, collecting per-row conversion errors.
// JSON records are numbered from 1.
func decode[T, J any](f export.Format, r io.Reader, fromRow func(export.Row) (T, error), fromJSON func(J) (T, error)) ([]parsed[T], []RowError, error) {
	var (
		out  []parsed[T]
		errs []RowError
	)

	if f == export.FormatJSON {
		records, err := export.DecodeJSON[J](r)
		if err != nil {
			return nil, nil, err
		}
		if len(records) > MaxRows {
			return nil, nil, httperr.ErrBusiness("import_too_large")
		}
		for i, rec := range records {
			v, err := fromJSON(rec)
			if err != nil {
				errs = append(errs, RowError{Line: i + 1, Error: err.Error()})
				continue
			}
			out = append(out, parsed[T]{line: i + 1, value: v})
		}
		return out, errs, nil
	}

	rows, err := export.ReadCSV(r)
	if err != nil {
		return nil, nil, err
	}
	if len(rows) > MaxRows {
		return nil, nil, httperr.ErrBusiness("import_too_large")
	}
	for _, row := range rows {
		v, err := fromRow(row)
		if err != nil {
			errs = append(errs, RowError{Line: row.Line, Error: err.Error()})
			continue
		}
		out = append(out, parsed[T]{line: row.Line, value: v})
	}
	return out, errs, nil
}

func reason(err error) string {
	if code, ok := httperr.AsBusiness(err); ok {
		return code
	}
	return err.Error()
}

func parseInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("número inválido %q", s)
	}
	return n, nil
}

// parseMoney aceita "1234.50", "1234,50" e "R$ 1.234,50".
func parseMoney(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "R$"))
	if s == "" {
		return decimal.Zero, nil
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("valor inválido %q", s)
	}
	return d, nil
}
