package usecase

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/domain/policy"
	repo "storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// 商品画像の保存先ディレクトリ
const productImageDir = "images"

var allowedImageExt = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
}

type ProductUsecase struct {
	productRepo repo.ProductRepository
	blobs       repo.BlobStore
	audit       auditRecorder
	log         zerolog.Logger
	newID       func() string
}

// DI
func NewProductUsecase(
	productRepo repo.ProductRepository,
	blobs repo.BlobStore,
	auditRepo repo.AuditLogRepository,
	log zerolog.Logger,
) *ProductUsecase {
	return &ProductUsecase{
		productRepo: productRepo,
		blobs:       blobs,
		audit:       auditRecorder{logs: auditRepo, log: log, now: time.Now},
		log:         log,
		newID:       uuid.NewString,
	}
}

// GET /productsの入力DTO
type ListProductsInput struct {
	Q        string
	Category string
	Sort     string
}

func (u *ProductUsecase) ListProducts(ctx context.Context, actor model.Identity, in ListProductsInput) ([]model.Product, error) {
	if err := requireCapability(actor, policy.OpBrowseProducts); err != nil {
		return []model.Product{}, err
	}
	if len(in.Q) > 100 {
		return []model.Product{}, validationError("q too long")
	}
	switch in.Sort {
	case "", "name", "price_asc", "price_desc":
	default:
		return []model.Product{}, validationError("invalid sort")
	}

	items, err := u.productRepo.List(ctx, repo.ProductListQuery{
		Q:        strings.TrimSpace(in.Q),
		Category: strings.TrimSpace(in.Category),
		Sort:     in.Sort,
	})
	if err != nil {
		return []model.Product{}, fromRepo(err, ErrNotFound)
	}
	return items, nil
}

func (u *ProductUsecase) GetProductDetail(ctx context.Context, actor model.Identity, productID string) (model.Product, error) {
	if err := requireCapability(actor, policy.OpBrowseProducts); err != nil {
		return model.Product{}, err
	}
	p, err := u.productRepo.FindByRowKey(ctx, productID)
	if err != nil {
		return model.Product{}, fromRepo(err, ErrNotFound)
	}
	return p, nil
}

// 画像は任意。Imageがnilなら今の画像のまま。
type ProductImage struct {
	Filename string
	Body     io.Reader
}

type AdminProductInput struct {
	Name        string
	Description string
	Price       int64
	Stock       int64
	Category    string
	Image       *ProductImage
	// 更新時のみ。空なら読んだ時点のETag
	ETag string
}

func validateProduct(in AdminProductInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return validationError("name required")
	}
	if in.Price < 0 {
		return validationError("price must be >= 0")
	}
	if in.Stock < 0 {
		return validationError("stock must be >= 0")
	}
	if in.Image != nil && !allowedImageExt[strings.ToLower(filepath.Ext(in.Image.Filename))] {
		return validationError("unsupported image type")
	}
	return nil
}

// 画像を保存して参照とblob名を返す
func (u *ProductUsecase) saveImage(ctx context.Context, img *ProductImage) (string, string, error) {
	name := u.newID() + strings.ToLower(filepath.Ext(img.Filename))
	ref, err := u.blobs.Put(ctx, productImageDir, name, img.Body)
	if err != nil {
		return "", "", fromRepo(err, ErrNotFound)
	}
	return ref, name, nil
}

// 商品の保存に失敗したら、先に置いた画像を消す
func (u *ProductUsecase) dropImage(ctx context.Context, name string) {
	if name == "" {
		return
	}
	if err := u.blobs.Delete(ctx, productImageDir, name); err != nil {
		u.log.Warn().Err(err).Str("blob", name).Msg("orphan image delete failed")
	}
}

func (u *ProductUsecase) AdminCreateProduct(ctx context.Context, actor model.Identity, in AdminProductInput) (model.Product, error) {
	if err := requireCapability(actor, policy.OpManageProducts); err != nil {
		return model.Product{}, err
	}
	if err := validateProduct(in); err != nil {
		return model.Product{}, err
	}

	p := model.Product{
		TableEntity: model.TableEntity{RowKey: u.newID()},
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		Category:    strings.TrimSpace(in.Category),
	}
	var blobName string
	if in.Image != nil {
		ref, name, err := u.saveImage(ctx, in.Image)
		if err != nil {
			return model.Product{}, err
		}
		p.ImageURL = ref
		blobName = name
	}

	created, err := u.productRepo.Insert(ctx, p)
	if err != nil {
		u.dropImage(ctx, blobName)
		return model.Product{}, fromRepo(err, ErrNotFound)
	}
	return created, nil
}

func (u *ProductUsecase) AdminUpdateProduct(ctx context.Context, actor model.Identity, productID string, in AdminProductInput) (model.Product, error) {
	if err := requireCapability(actor, policy.OpManageProducts); err != nil {
		return model.Product{}, err
	}
	if err := validateProduct(in); err != nil {
		return model.Product{}, err
	}

	existing, err := u.productRepo.FindByRowKey(ctx, productID)
	if err != nil {
		return model.Product{}, fromRepo(err, ErrNotFound)
	}

	next := existing
	if in.ETag != "" {
		next.ETag = in.ETag
	}
	next.Name = strings.TrimSpace(in.Name)
	next.Description = in.Description
	next.Price = in.Price
	next.Stock = in.Stock
	next.Category = strings.TrimSpace(in.Category)
	var blobName string
	if in.Image != nil {
		ref, name, err := u.saveImage(ctx, in.Image)
		if err != nil {
			return model.Product{}, err
		}
		next.ImageURL = ref
		blobName = name
	}

	updated, err := u.productRepo.Replace(ctx, next)
	if err != nil {
		u.dropImage(ctx, blobName)
		return model.Product{}, fromRepo(err, ErrNotFound)
	}

	u.audit.record(ctx, actor, model.AuditActionUpdateProduct, model.AuditResourceProduct, productID, existing, updated)
	return updated, nil
}

// 削除しても既存の注文は残る（表示時は "Unknown" になる）
func (u *ProductUsecase) AdminDeleteProduct(ctx context.Context, actor model.Identity, productID string) error {
	if err := requireCapability(actor, policy.OpManageProducts); err != nil {
		return err
	}

	existing, err := u.productRepo.FindByRowKey(ctx, productID)
	if err != nil {
		return fromRepo(err, ErrNotFound)
	}
	if err := u.productRepo.Delete(ctx, productID); err != nil {
		return fromRepo(err, ErrNotFound)
	}

	u.audit.record(ctx, actor, model.AuditActionDeleteProduct, model.AuditResourceProduct, productID, existing, nil)
	return nil
}

// 商品画像の読み出し（/images/{name}）
func (u *ProductUsecase) OpenImage(ctx context.Context, name string) (io.ReadCloser, error) {
	rc, err := u.blobs.Open(ctx, productImageDir, name)
	if err != nil {
		return nil, fromRepo(err, ErrNotFound)
	}
	return rc, nil
}
