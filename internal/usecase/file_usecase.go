package usecase

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"storefront/internal/domain/model"
	"storefront/internal/domain/policy"
	repo "storefront/internal/repository"
)

// アップロードファイルの置き場所
const uploadDir = "uploads"

type FileUsecase struct {
	blobs repo.BlobStore
}

func NewFileUsecase(blobs repo.BlobStore) *FileUsecase {
	return &FileUsecase{blobs: blobs}
}

// クライアントが送ってきたパス部分は捨ててファイル名だけ使う
func cleanFileName(name string) (string, error) {
	name = strings.TrimSpace(strings.ReplaceAll(name, `\`, "/"))
	name = filepath.Base(name)
	if name == "" || name == "." || name == ".." || name == "/" || strings.HasPrefix(name, ".") {
		return "", validationError("invalid file name")
	}
	return name, nil
}

func (u *FileUsecase) Upload(ctx context.Context, actor model.Identity, filename string, body io.Reader) (string, error) {
	if err := requireCapability(actor, policy.OpManageFiles); err != nil {
		return "", err
	}
	name, err := cleanFileName(filename)
	if err != nil {
		return "", err
	}
	if _, err := u.blobs.Put(ctx, uploadDir, name, body); err != nil {
		return "", fromRepo(err, ErrNotFound)
	}
	return name, nil
}

func (u *FileUsecase) List(ctx context.Context, actor model.Identity) ([]repo.BlobInfo, error) {
	if err := requireCapability(actor, policy.OpManageFiles); err != nil {
		return []repo.BlobInfo{}, err
	}
	files, err := u.blobs.List(ctx, uploadDir)
	if err != nil {
		return []repo.BlobInfo{}, fromRepo(err, ErrNotFound)
	}
	return files, nil
}

func (u *FileUsecase) Download(ctx context.Context, actor model.Identity, filename string) (io.ReadCloser, string, error) {
	if err := requireCapability(actor, policy.OpManageFiles); err != nil {
		return nil, "", err
	}
	name, err := cleanFileName(filename)
	if err != nil {
		return nil, "", err
	}
	rc, err := u.blobs.Open(ctx, uploadDir, name)
	if err != nil {
		return nil, "", fromRepo(err, ErrNotFound)
	}
	return rc, name, nil
}

func (u *FileUsecase) Delete(ctx context.Context, actor model.Identity, filename string) error {
	if err := requireCapability(actor, policy.OpManageFiles); err != nil {
		return err
	}
	name, err := cleanFileName(filename)
	if err != nil {
		return err
	}
	if err := u.blobs.Delete(ctx, uploadDir, name); err != nil {
		return fromRepo(err, ErrNotFound)
	}
	return nil
}
