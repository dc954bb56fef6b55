package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocateRequester(t *testing.T) {
	layout := "  Requerente                    Setor            Centro de Custo\n" +
		"  JOSE DA SILVA SANTOS          MANUTENCAO       4001\n"
	assert.Equal(t, "JOSE DA SILVA SANTOS", LocateRequester(layout))
}

func TestLocateRequester_SkipsBlankLines(t *testing.T) {
	layout := "Requerente      Setor\n\n   \nMARIA SOUZA     COMPRAS\n"
	assert.Equal(t, "MARIA SOUZA", LocateRequester(layout))
}

func TestLocateRequester_LookaheadLimit(t *testing.T) {
	layout := "Requerente\n\n\n\nTOO FAR AWAY\n"
	assert.Equal(t, "", LocateRequester(layout))
}

func TestLocateRequester_NoAnchor(t *testing.T) {
	assert.Equal(t, "", LocateRequester("Solicitante\nFULANO\n"))
	assert.Equal(t, "", LocateRequester(""))
}

func TestLocateRequester_AnchorOnLastLine(t *testing.T) {
	assert.Equal(t, "", LocateRequester("cabecalho\nRequerente"))
}

func TestLocateRequester_OnlyFirstAnchor(t *testing.T) {
	layout := "Requerente\n\n\n\nRequerente\nSEGUNDO NOME\n"
	assert.Equal(t, "", LocateRequester(layout))

	layout = "Requerente\nPRIMEIRO NOME\nRequerente\nSEGUNDO NOME\n"
	assert.Equal(t, "PRIMEIRO NOME", LocateRequester(layout))
}

func TestLocateRequester_SingleSpacesKept(t *testing.T) {
	layout := "Requerente\r\nANA B. C. LIMA\tX  OUTRA COLUNA\r\n"
	assert.Equal(t, "ANA B. C. LIMA\tX", LocateRequester(layout))
}
