package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"sort"
	"strconv"
)

// FilePart is one binary upload: the original filename plus its content.
type FilePart struct {
	Filename string
	Content  []byte
}

// CategoryForm is the multipart payload for category create/update: a JSON
// "request" part carrying the structured fields and an optional "imagem" file
// part.
type CategoryForm struct {
	Nome   string
	Imagem *FilePart
}

// CustomizationForm is one product variant in a create/update submission.
// Estoque maps size labels to quantities.
type CustomizationForm struct {
	Cores   []string
	Estoque map[string]int
	Imagem  *FilePart
}

// ProductForm is the multipart payload for product create/update. The
// backend expects flat fields for the product itself and array-indexed field
// names for each variant.
type ProductForm struct {
	Nome           string
	Descricao      string
	Preco          float64
	CategoriaID    int64
	Customizations []CustomizationForm
}

// encodeCategoryForm builds the category multipart body. The returned content
// type comes from the writer so the multipart boundary is never hand-set.
func encodeCategoryForm(form CategoryForm) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	request, err := json.Marshal(map[string]string{"nome": form.Nome})
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal category request part: %w", err)
	}
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="request"`)
	header.Set("Content-Type", "application/json")
	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request part: %w", err)
	}
	if _, err := part.Write(request); err != nil {
		return nil, "", fmt.Errorf("failed to write request part: %w", err)
	}

	if form.Imagem != nil {
		if err := writeFilePart(w, "imagem", form.Imagem); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}
	return body, w.FormDataContentType(), nil
}

// encodeProductForm builds the product multipart body. The mapping is fixed
// by the backend protocol:
//
//	nome, descricao, preco, categoriaId            plain fields
//	produtoCustoms[i].estoque[TAMANHO]             quantity per size
//	produtoCustoms[i].cores                        repeated color field
//	produtoCustoms[i].imagem                       variant image file
//
// Stock entries are written in sorted size order so the body is
// deterministic.
func encodeProductForm(form ProductForm) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	fields := []struct{ name, value string }{
		{"nome", form.Nome},
		{"descricao", form.Descricao},
		{"preco", strconv.FormatFloat(form.Preco, 'f', -1, 64)},
		{"categoriaId", strconv.FormatInt(form.CategoriaID, 10)},
	}
	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", fmt.Errorf("failed to write field %q: %w", f.name, err)
		}
	}

	for i, cust := range form.Customizations {
		prefix := fmt.Sprintf("produtoCustoms[%d]", i)

		sizes := make([]string, 0, len(cust.Estoque))
		for tamanho := range cust.Estoque {
			sizes = append(sizes, tamanho)
		}
		sort.Strings(sizes)
		for _, tamanho := range sizes {
			name := fmt.Sprintf("%s.estoque[%s]", prefix, tamanho)
			if err := w.WriteField(name, strconv.Itoa(cust.Estoque[tamanho])); err != nil {
				return nil, "", fmt.Errorf("failed to write stock field %q: %w", name, err)
			}
		}

		for _, cor := range cust.Cores {
			if err := w.WriteField(prefix+".cores", cor); err != nil {
				return nil, "", fmt.Errorf("failed to write color field for variant %d: %w", i, err)
			}
		}

		if cust.Imagem != nil {
			if err := writeFilePart(w, prefix+".imagem", cust.Imagem); err != nil {
				return nil, "", err
			}
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}
	return body, w.FormDataContentType(), nil
}

func writeFilePart(w *multipart.Writer, name string, file *FilePart) error {
	part, err := w.CreateFormFile(name, file.Filename)
	if err != nil {
		return fmt.Errorf("failed to create file part %q: %w", name, err)
	}
	if _, err := part.Write(file.Content); err != nil {
		return fmt.Errorf("failed to write file part %q: %w", name, err)
	}
	return nil
}
