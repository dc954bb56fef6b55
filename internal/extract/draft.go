package extract

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Draft is the form-prefill payload: field names follow the order creation form.
type Draft struct {
	RequestNumber string      `json:"solicitacao,omitempty"`
	PurchaseDate  string      `json:"data_compra,omitempty"`
	CompanyCode   string      `json:"empresa,omitempty"`
	Requester     string      `json:"solicitante_real,omitempty"`
	Observation   string      `json:"observacao,omitempty"`
	Items         []DraftItem `json:"itens"`
	NoItems       bool        `json:"nenhum_item"`
	Message       string      `json:"mensagem"`
}

type DraftItem struct {
	Name     string `json:"nome_item"`
	Quantity string `json:"quantidade"`
	Unit     string `json:"unidade_medida"`
}

// Message is the user feedback shown after an import.
func (r Result) Message() string {
	if r.NoItems || len(r.Items) == 0 {
		return "Nenhum item encontrado no PDF."
	}
	return fmt.Sprintf("%d itens carregados.", len(r.Items))
}

// Draft maps the result onto the creation form fields.
func (r Result) Draft() Draft {
	d := Draft{
		RequestNumber: r.Header.RequestNumber,
		PurchaseDate:  r.Header.PurchaseDateISO(),
		CompanyCode:   r.Header.CompanyCode,
		Requester:     r.Header.Requester,
		Observation:   r.Header.Observation,
		Items:         make([]DraftItem, 0, len(r.Items)),
		NoItems:       r.NoItems,
		Message:       r.Message(),
	}
	for _, it := range r.Items {
		d.Items = append(d.Items, DraftItem{Name: it.Name(), Quantity: it.Quantity, Unit: it.Unit})
	}
	return d
}

// DraftJSONSchema describes the Draft payload.
func DraftJSONSchema() map[string]any {
	item := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"nome_item":      map[string]any{"type": "string", "pattern": `^\d{2}\.\d{2}\.\d{4} - `},
			"quantidade":     map[string]any{"type": "string", "pattern": `^\d+$`},
			"unidade_medida": map[string]any{"type": "string", "minLength": 1},
		},
		"required": []string{"nome_item", "quantidade", "unidade_medida"},
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"solicitacao":      map[string]any{"type": "string", "pattern": `^\d+$`},
			"data_compra":      map[string]any{"type": "string", "pattern": `^\d{4}-\d{2}-\d{2}$`},
			"empresa":          map[string]any{"type": "string", "pattern": `^\d+$`},
			"solicitante_real": map[string]any{"type": "string"},
			"observacao":       map[string]any{"type": "string"},
			"itens":            map[string]any{"type": "array", "items": item},
			"nenhum_item":      map[string]any{"type": "boolean"},
			"mensagem":         map[string]any{"type": "string"},
		},
		"required": []string{"itens", "nenhum_item", "mensagem"},
	}
}

var draftSchema = mustCompileSchema(DraftJSONSchema())

// ValidateDraft checks a draft against DraftJSONSchema.
func ValidateDraft(d Draft) error {
	b, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("unmarshal draft: %w", err)
	}
	if err := draftSchema.Validate(v); err != nil {
		return fmt.Errorf("draft does not match schema: %w", err)
	}
	return nil
}

func mustCompileSchema(schemaMap map[string]any) *jsonschema.Schema {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		panic(fmt.Sprintf("marshal schema: %v", err))
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("draft.json", bytes.NewReader(b)); err != nil {
		panic(fmt.Sprintf("add schema: %v", err))
	}
	return compiler.MustCompile("draft.json")
}
