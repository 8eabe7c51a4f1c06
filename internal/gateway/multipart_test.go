package gateway

import (
	"io"
	"mime"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// readParts collects every part of a multipart body as name -> content, plus
// the ordered list of field names.
func readParts(t *testing.T, body io.Reader, contentType string) (map[string]string, []string, map[string]string) {
	t.Helper()
	mediaType, params, err := mime.ParseMediaType(contentType)
	require.NoError(t, err)
	require.Equal(t, "multipart/form-data", mediaType)

	values := map[string]string{}
	types := map[string]string{}
	var order []string

	reader := multipart.NewReader(body, params["boundary"])
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		content, err := io.ReadAll(part)
		require.NoError(t, err)
		name := part.FormName()
		order = append(order, name)
		if _, dup := values[name]; dup {
			values[name] += "," + string(content)
		} else {
			values[name] = string(content)
		}
		types[name] = part.Header.Get("Content-Type")
	}
	return values, order, types
}

func TestEncodeCategoryForm(t *testing.T) {
	body, contentType, err := encodeCategoryForm(CategoryForm{
		Nome:   "Camisetas",
		Imagem: &FilePart{Filename: "capa.png", Content: []byte("png-bytes")},
	})
	require.NoError(t, err)

	values, _, types := readParts(t, body, contentType)

	assert.JSONEq(t, `{"nome":"Camisetas"}`, values["request"])
	assert.Equal(t, "application/json", types["request"],
		"the structured part must be declared as JSON or the backend rejects it")
	assert.Equal(t, "png-bytes", values["imagem"])
}

func TestEncodeCategoryForm_NoImage(t *testing.T) {
	body, contentType, err := encodeCategoryForm(CategoryForm{Nome: "Calças"})
	require.NoError(t, err)

	values, _, _ := readParts(t, body, contentType)
	assert.NotContains(t, values, "imagem")
}

func TestEncodeProductForm(t *testing.T) {
	body, contentType, err := encodeProductForm(ProductForm{
		Nome:        "Camiseta básica",
		Descricao:   "Algodão",
		Preco:       59.9,
		CategoriaID: 3,
		Customizations: []CustomizationForm{
			{
				Cores:   []string{"preto", "branco"},
				Estoque: map[string]int{"P": 5, "M": 0, "G": 2},
				Imagem:  &FilePart{Filename: "preta.png", Content: []byte("img-0")},
			},
			{
				Cores:   []string{"azul"},
				Estoque: map[string]int{"U": 9},
			},
		},
	})
	require.NoError(t, err)

	values, order, _ := readParts(t, body, contentType)

	assert.Equal(t, "Camiseta básica", values["nome"])
	assert.Equal(t, "Algodão", values["descricao"])
	assert.Equal(t, "59.9", values["preco"])
	assert.Equal(t, "3", values["categoriaId"])

	assert.Equal(t, "5", values["produtoCustoms[0].estoque[P]"])
	assert.Equal(t, "0", values["produtoCustoms[0].estoque[M]"])
	assert.Equal(t, "2", values["produtoCustoms[0].estoque[G]"])
	assert.Equal(t, "preto,branco", values["produtoCustoms[0].cores"])
	assert.Equal(t, "img-0", values["produtoCustoms[0].imagem"])

	assert.Equal(t, "9", values["produtoCustoms[1].estoque[U]"])
	assert.Equal(t, "azul", values["produtoCustoms[1].cores"])
	assert.NotContains(t, values, "produtoCustoms[1].imagem")

	// Stock fields are emitted in sorted size order so the body is stable.
	stockOrder := make([]string, 0, 3)
	for _, name := range order {
		if strings.HasPrefix(name, "produtoCustoms[0].estoque") {
			stockOrder = append(stockOrder, name)
		}
	}
	assert.Equal(t, []string{
		"produtoCustoms[0].estoque[G]",
		"produtoCustoms[0].estoque[M]",
		"produtoCustoms[0].estoque[P]",
	}, stockOrder)
}
