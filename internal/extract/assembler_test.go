package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePlain = `NUTRANE ALIMENTOS
Solicitação de Compra: 88231
Data: 15/03/2024 Empresa: 4
Requerente Setor
JOAO PEREIRA MANUTENCAO
Código Descrição Qtd Und
12.34.5678 PARAFUSO SEXTAVADO M8 20,0 UN
Observação: aço inox
01.02.0003 CORREIA V PC
Total de itens: 2`

const sampleLayout = `   NUTRANE ALIMENTOS
   Solicitação de Compra: 88231          Data: 15/03/2024
   Requerente                       Setor
   JOAO PEREIRA                     MANUTENCAO
   Código       Descrição                    Qtd      Und`

func TestAssemble_FullDocument(t *testing.T) {
	res := Assemble(RawDocumentText{Plain: samplePlain, Layout: sampleLayout})

	assert.False(t, res.NoItems)
	assert.Equal(t, "88231", res.Header.RequestNumber)
	assert.Equal(t, "2024-03-15", res.Header.PurchaseDateISO())
	assert.Equal(t, "4", res.Header.CompanyCode)
	assert.Equal(t, "JOAO PEREIRA", res.Header.Requester)
	assert.Equal(t, "12.34.5678 PARAFUSO SEXTAVADO M8 - aço inox\n01.02.0003 CORREIA V", res.Header.Observation)

	require.Len(t, res.Items, 2)
	assert.Equal(t, LineItem{Code: "12.34.5678", Description: "PARAFUSO SEXTAVADO M8", Quantity: "20", Unit: "UN", Note: "aço inox"}, res.Items[0])
	assert.Equal(t, LineItem{Code: "01.02.0003", Description: "CORREIA V", Quantity: "1", Unit: "PCT"}, res.Items[1])
}

func TestAssemble_NoItems(t *testing.T) {
	res := Assemble(RawDocumentText{Plain: "Solicitação de Compra: 1\nData: 31/13/2024", Layout: ""})
	assert.True(t, res.NoItems)
	assert.Empty(t, res.Items)
	assert.Equal(t, "1", res.Header.RequestNumber)
	assert.False(t, res.Header.HasPurchaseDate())
	assert.Equal(t, "", res.Header.Observation)
	assert.Equal(t, "", res.Header.Requester)
}

func TestAssemble_Empty(t *testing.T) {
	res := NewAssembler(nil).Assemble(RawDocumentText{})
	assert.Equal(t, Empty(), res)
}

func TestResult_MessageAndDraft(t *testing.T) {
	res := Assemble(RawDocumentText{Plain: samplePlain, Layout: sampleLayout})
	assert.Equal(t, "2 itens carregados.", res.Message())

	d := res.Draft()
	assert.Equal(t, "88231", d.RequestNumber)
	assert.Equal(t, "2024-03-15", d.PurchaseDate)
	assert.Equal(t, "4", d.CompanyCode)
	assert.Equal(t, "JOAO PEREIRA", d.Requester)
	assert.Equal(t, []DraftItem{
		{Name: "12.34.5678 - PARAFUSO SEXTAVADO M8", Quantity: "20", Unit: "UN"},
		{Name: "01.02.0003 - CORREIA V", Quantity: "1", Unit: "PCT"},
	}, d.Items)
	require.NoError(t, ValidateDraft(d))

	empty := Empty().Draft()
	assert.Equal(t, "Nenhum item encontrado no PDF.", empty.Message)
	assert.True(t, empty.NoItems)
	assert.NotNil(t, empty.Items)
	require.NoError(t, ValidateDraft(empty))
}

func TestValidateDraft_Rejects(t *testing.T) {
	d := Draft{
		RequestNumber: "ABC",
		Items:         []DraftItem{{Name: "x", Quantity: "1", Unit: "UN"}},
		Message:       "1 itens carregados.",
	}
	assert.Error(t, ValidateDraft(d))
}
