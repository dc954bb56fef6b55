package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseItems_Rows(t *testing.T) {
	tests := []struct {
		name string
		line string
		want LineItem
	}{
		{
			name: "quantity after description",
			line: "12.34.5678   PARAFUSO SEXTAVADO M8   20,0   UN",
			want: LineItem{Code: "12.34.5678", Description: "PARAFUSO SEXTAVADO M8", Quantity: "20", Unit: "UN"},
		},
		{
			name: "pc unit without quantity",
			line: "01.02.0003   CORREIA V   PC",
			want: LineItem{Code: "01.02.0003", Description: "CORREIA V", Quantity: "1", Unit: "PCT"},
		},
		{
			name: "unit before quantity",
			line: "10.20.3040 ROLAMENTO 6205 KG 3,00",
			want: LineItem{Code: "10.20.3040", Description: "ROLAMENTO 6205", Quantity: "3", Unit: "KG"},
		},
		{
			name: "unit token containing UN normalizes to UN",
			line: "10.20.3041 GRAXA UNID 2,5",
			want: LineItem{Code: "10.20.3041", Description: "GRAXA", Quantity: "2", Unit: "UN"},
		},
		{
			name: "lowercase unit is uppercased",
			line: "10.20.3042 OLEO 15W40 litro 4,0",
			want: LineItem{Code: "10.20.3042", Description: "OLEO 15W40", Quantity: "4", Unit: "LITRO"},
		},
		{
			name: "marker only",
			line: "99.99.9999",
			want: LineItem{Code: "99.99.9999", Description: "", Quantity: "1", Unit: "UN"},
		},
		{
			name: "marker with trailing blanks",
			line: "99.99.9998   ",
			want: LineItem{Code: "99.99.9998", Description: "", Quantity: "1", Unit: "UN"},
		},
		{
			name: "numeral-shaped token is not description",
			line: "11.11.1111 CABO 2,5mm 10,0",
			want: LineItem{Code: "11.11.1111", Description: "CABO", Quantity: "10", Unit: "UN"},
		},
		{
			name: "unknown unit stays in description",
			line: "11.11.1112 FITA ROLO 5,0",
			want: LineItem{Code: "11.11.1112", Description: "FITA ROLO", Quantity: "5", Unit: "UN"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, _ := ParseItems(tt.line)
			require.Len(t, items, 1)
			assert.Equal(t, tt.want, items[0])
		})
	}
}

func TestParseItems_QuantityTerminatesScan(t *testing.T) {
	tails := []string{"UN", "CX EXTRA WORDS", "7,0", "MORE TEXT HERE", ""}
	for _, tail := range tails {
		items, _ := ParseItems("12.34.5678 ARRUELA LISA 12,0 " + tail)
		require.Len(t, items, 1)
		assert.Equal(t, "12", items[0].Quantity, "tail %q", tail)
		assert.Equal(t, "ARRUELA LISA", items[0].Description, "tail %q", tail)
		assert.Equal(t, "UN", items[0].Unit, "tail %q", tail)
	}
}

func TestParseItems_QuantityAnyPosition(t *testing.T) {
	lines := []string{
		"12.34.5678 8,0 ARRUELA UN",
		"12.34.5678 ARRUELA 8,0 UN",
		"12.34.5678 ARRUELA UN 8,0",
		"12.34.5678 ARRUELA UN RUIDO 8,0",
	}
	for _, line := range lines {
		items, _ := ParseItems(line)
		require.Len(t, items, 1)
		assert.Equal(t, "8", items[0].Quantity, line)
	}
}

// Tokens after a unit and before the quantity are dropped; this pins the
// current behavior for trailing multi-word annotations.
func TestParseItems_PostUnitTokensDropped(t *testing.T) {
	items, _ := ParseItems("20.30.4050 MANGUEIRA M TRANCADA ALTA PRESSAO 15,0")
	require.Len(t, items, 1)
	assert.Equal(t, "MANGUEIRA", items[0].Description)
	assert.Equal(t, "M", items[0].Unit)
	assert.Equal(t, "15", items[0].Quantity)
}

// Words containing "UN" are read as units; pinned as a known ambiguity.
func TestParseItems_WordContainingUNReadAsUnit(t *testing.T) {
	items, _ := ParseItems("20.30.4051 FUNIL PLASTICO 2,0")
	require.Len(t, items, 1)
	assert.Equal(t, "", items[0].Description)
	assert.Equal(t, "UN", items[0].Unit)
	assert.Equal(t, "2", items[0].Quantity)
}

func TestParseItems_NonRows(t *testing.T) {
	text := "Solicitação de Compra: 123\n" +
		" 12.34.5678 INDENTED ROW\n" +
		"12.34.56789 TOO MANY DIGITS\n" +
		"1.34.5678 SHORT\n" +
		"Código 12.34.5678 NOT AT START"
	items, obs := ParseItems(text)
	assert.Empty(t, items)
	assert.Empty(t, obs)
}

func TestParseItems_ObservationsAndOrder(t *testing.T) {
	text := "Itens\n" +
		"01.01.0001 CORREIA A-42 PC\n" +
		"Observação: urgente, parada de linha\n" +
		"01.01.0002 ROLAMENTO 6204 2,0 UN\n" +
		"texto solto\n" +
		"01.01.0003 GRAXA KG 1,0\n" +
		"   Observação:   marca X  \r\n"

	items, obs := ParseItems(text)
	require.Len(t, items, 3)
	assert.Equal(t, "01.01.0001", items[0].Code)
	assert.Equal(t, "01.01.0002", items[1].Code)
	assert.Equal(t, "01.01.0003", items[2].Code)
	assert.Equal(t, "urgente, parada de linha", items[0].Note)
	assert.Equal(t, "", items[1].Note)
	assert.Equal(t, "marca X", items[2].Note)

	assert.Equal(t, []string{
		"01.01.0001 CORREIA A-42 - urgente, parada de linha",
		"01.01.0002 ROLAMENTO 6204",
		"01.01.0003 GRAXA - marca X",
	}, obs)
}

func TestParseItems_ObservationOnlyOnNextLine(t *testing.T) {
	text := "01.01.0001 CORREIA PC\n" +
		"linha intermediaria\n" +
		"Observação: nao pertence ao item"
	items, obs := ParseItems(text)
	require.Len(t, items, 1)
	assert.Equal(t, "", items[0].Note)
	assert.Equal(t, []string{"01.01.0001 CORREIA"}, obs)
}

func TestLineItemName(t *testing.T) {
	assert.Equal(t, "12.34.5678 - PARAFUSO", LineItem{Code: "12.34.5678", Description: "PARAFUSO"}.Name())
	assert.Equal(t, "12.34.5678 - ", LineItem{Code: "12.34.5678"}.Name())
}
