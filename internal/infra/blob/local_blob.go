package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	repo "storefront/internal/repository"
)

// ローカルディスク上のblob置き場。dirごとにサブディレクトリを切る。
// 参照は "/{dir}/{name}" 形式で返す。
type LocalBlobStore struct {
	root string
}

func NewLocalBlobStore(root string) (*LocalBlobStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create blob root: %w", err)
	}
	return &LocalBlobStore{root: root}, nil
}

var _ repo.BlobStore = (*LocalBlobStore)(nil)

var errBadName = errors.New("invalid blob name")

// パス区切りや".."を含む名前は受け付けない
func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", errBadName
	}
	return name, nil
}

func (s *LocalBlobStore) path(dir, name string) (string, error) {
	d, n, err := cleanPair(dir, name)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, d, n), nil
}

func cleanPair(dir, name string) (string, string, error) {
	d, err := cleanName(dir)
	if err != nil {
		return "", "", err
	}
	n, err := cleanName(name)
	if err != nil {
		return "", "", err
	}
	return d, n, nil
}

func (s *LocalBlobStore) Put(ctx context.Context, dir, name string, r io.Reader) (string, error) {
	d, n, err := cleanPair(dir, name)
	if err != nil {
		return "", err
	}
	p := filepath.Join(s.root, d, n)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return "", fmt.Errorf("%w: %v", repo.ErrUnavailable, err)
	}

	// 途中で失敗しても中途半端なファイルを残さない
	tmp, err := os.CreateTemp(filepath.Dir(p), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("%w: %v", repo.ErrUnavailable, err)
	}
	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("%w: %v", repo.ErrUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("%w: %v", repo.ErrUnavailable, err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("%w: %v", repo.ErrUnavailable, err)
	}
	return "/" + d + "/" + n, nil
}

func (s *LocalBlobStore) Open(ctx context.Context, dir, name string) (io.ReadCloser, error) {
	p, err := s.path(dir, name)
	if err != nil {
		return nil, repo.ErrNotFound
	}
	f, err := os.Open(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, repo.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", repo.ErrUnavailable, err)
	}
	return f, nil
}

// 名前順で返す。ディレクトリが無ければ空。
func (s *LocalBlobStore) List(ctx context.Context, dir string) ([]repo.BlobInfo, error) {
	d, err := cleanName(dir)
	if err != nil {
		return []repo.BlobInfo{}, err
	}
	entries, err := os.ReadDir(filepath.Join(s.root, d))
	if errors.Is(err, os.ErrNotExist) {
		return []repo.BlobInfo{}, nil
	}
	if err != nil {
		return []repo.BlobInfo{}, fmt.Errorf("%w: %v", repo.ErrUnavailable, err)
	}

	out := make([]repo.BlobInfo, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, repo.BlobInfo{
			Name:       e.Name(),
			Size:       info.Size(),
			ModifiedAt: info.ModTime().UTC(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *LocalBlobStore) Delete(ctx context.Context, dir, name string) error {
	p, err := s.path(dir, name)
	if err != nil {
		return repo.ErrNotFound
	}
	err = os.Remove(p)
	if errors.Is(err, os.ErrNotExist) {
		return repo.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: %v", repo.ErrUnavailable, err)
	}
	return nil
}
