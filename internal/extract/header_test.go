package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractHeader(t *testing.T) {
	plain := "NUTRANE\nSolicitação de Compra: 4521   Data: 15/03/2024\nEmpresa: 7 - Nutrane Bahia\n"
	h := ExtractHeader(plain)
	assert.Equal(t, "4521", h.RequestNumber)
	assert.Equal(t, "7", h.CompanyCode)
	assert.True(t, h.HasPurchaseDate())
	assert.Equal(t, "2024-03-15", h.PurchaseDateISO())
}

func TestExtractHeader_InvalidDateDropped(t *testing.T) {
	for _, raw := range []string{"31/13/2024", "30/02/2024", "00/01/2024"} {
		h := ExtractHeader("Solicitação de Compra: 9\nData: " + raw + "\nEmpresa: 1")
		assert.False(t, h.HasPurchaseDate(), raw)
		assert.Equal(t, "", h.PurchaseDateISO(), raw)
		assert.Equal(t, "9", h.RequestNumber, raw)
		assert.Equal(t, "1", h.CompanyCode, raw)
	}
}

func TestExtractHeader_FieldsIndependent(t *testing.T) {
	h := ExtractHeader("Data: 01/02/2025")
	assert.Equal(t, "", h.RequestNumber)
	assert.Equal(t, "", h.CompanyCode)
	assert.Equal(t, "2025-02-01", h.PurchaseDateISO())

	h = ExtractHeader("Empresa: 10")
	assert.Equal(t, "10", h.CompanyCode)
	assert.False(t, h.HasPurchaseDate())

	assert.Equal(t, Header{}, ExtractHeader(""))
}

func TestExtractHeader_FirstOccurrenceWins(t *testing.T) {
	h := ExtractHeader("Solicitação de Compra: 100\nSolicitação de Compra: 200")
	assert.Equal(t, "100", h.RequestNumber)
}
