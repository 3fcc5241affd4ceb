package infra

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// BlobStorage is the image blob store port: write bytes under a key, get back
// the URL the presentation layer can load.
type BlobStorage interface {
	Salvar(ctx context.Context, chave string, dados []byte) (string, error)
}

// DiscoStorage keeps blobs on local disk and serves them through the /static
// route. The key becomes the filename; path separators are rejected so a key
// can never escape the storage directory.
type DiscoStorage struct {
	dir     string
	baseURL string
}

func NovoDiscoStorage(dir, baseURL string) (*DiscoStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("criar diretório de imagens: %w", err)
	}
	return &DiscoStorage{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *DiscoStorage) Salvar(_ context.Context, chave string, dados []byte) (string, error) {
	if strings.ContainsAny(chave, `/\`) {
		return "", fmt.Errorf("chave de blob inválida: %q", chave)
	}
	destino := filepath.Join(s.dir, chave)
	if err := os.WriteFile(destino, dados, 0o644); err != nil {
		return "", fmt.Errorf("gravar blob %q: %w", chave, err)
	}
	return s.baseURL + "/static/" + chave, nil
}
