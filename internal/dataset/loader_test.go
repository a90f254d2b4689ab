package dataset

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GiovanoMP/projeto-kore-data/internal/config"
)

func writeFixture(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(strings.TrimSpace(content)+"\n"), 0o644))
}

func fixtureDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFixture(t, dir, "clientes.csv", `
IDCliente,Pais
17850,United Kingdom
`)
	writeFixture(t, dir, "itens_fatura.csv", `
NumeroFatura,CodigoProduto,Quantidade,DataFatura,PrecoUnitario,IDCliente
536365,85123A,6,2010-12-01 08:26:00,2.55,17850
`)
	writeFixture(t, dir, "produtos.csv", `
CodigoProduto,Categoria
85123A,decor
`)
	return dir
}

func localConfig(dir string) config.DataConfig {
	return config.DataConfig{
		Type:      "local",
		LocalPath: dir,
		Files: config.FileNames{
			Customers: "clientes.csv",
			Items:     "itens_fatura.csv",
			Products:  "produtos.csv",
		},
	}
}

func TestLoadLocal(t *testing.T) {
	ds, err := Load(context.Background(), localConfig(fixtureDir(t)))
	require.NoError(t, err)
	assert.Len(t, ds.Items, 1)
	assert.Len(t, ds.Customers, 1)
}

func TestLoadLocalMissingTable(t *testing.T) {
	dir := fixtureDir(t)
	require.NoError(t, os.Remove(filepath.Join(dir, "produtos.csv")))

	_, err := Load(context.Background(), localConfig(dir))
	require.ErrorIs(t, err, ErrMissingSource)
}

func TestLoadLocalEmptyItems(t *testing.T) {
	dir := fixtureDir(t)
	writeFixture(t, dir, "itens_fatura.csv", `
NumeroFatura,CodigoProduto,Quantidade,DataFatura,PrecoUnitario,IDCliente
`)
	_, err := Load(context.Background(), localConfig(dir))
	require.ErrorIs(t, err, ErrEmptySource)
}

func TestLoadLocalSegmentsOptional(t *testing.T) {
	dir := fixtureDir(t)
	cfg := localConfig(dir)
	cfg.Files.Segments = "clientes_segmentados.csv"

	// Missing segmentation file must not fail the load.
	ds, err := Load(context.Background(), cfg)
	require.NoError(t, err)
	assert.Empty(t, ds.Segments)

	writeFixture(t, dir, "clientes_segmentados.csv", `
IDCliente,Segmento,ProdutosRecomendados
17850,2,['85123A']
`)
	ds, err = Load(context.Background(), cfg)
	require.NoError(t, err)
	require.Len(t, ds.Segments, 1)
	assert.Equal(t, []string{"85123A"}, ds.Segments[17850].RecommendedProducts)
}

func TestLoadUnknownSourceType(t *testing.T) {
	_, err := Load(context.Background(), config.DataConfig{Type: "ftp"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ftp")
}

func TestReadCSVTableEmptyInput(t *testing.T) {
	_, err := readCSVTable("clientes", strings.NewReader(""))
	require.ErrorIs(t, err, ErrEmptySource)
}
