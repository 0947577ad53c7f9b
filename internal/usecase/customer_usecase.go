package usecase

import (
	"context"
	"net/mail"
	"strings"

	"storefront/internal/domain/model"
	"storefront/internal/domain/policy"
	repo "storefront/internal/repository"

	"github.com/google/uuid"
)

type CustomerUsecase struct {
	customers repo.CustomerRepository
	newID     func() string
}

func NewCustomerUsecase(customers repo.CustomerRepository) *CustomerUsecase {
	return &CustomerUsecase{customers: customers, newID: uuid.NewString}
}

type CustomerInput struct {
	// 作成時のみ。空ならuuidを振る
	RowKey      string
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
	Address     string
	City        string
	ETag        string
}

func validateCustomer(in CustomerInput) error {
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return validationError("first_name and last_name are required")
	}
	if e := strings.TrimSpace(in.Email); e != "" {
		if _, err := mail.ParseAddress(e); err != nil {
			return validationError("invalid email")
		}
	}
	return nil
}

func applyCustomer(c *model.Customer, in CustomerInput) {
	c.FirstName = strings.TrimSpace(in.FirstName)
	c.LastName = strings.TrimSpace(in.LastName)
	c.Email = strings.TrimSpace(in.Email)
	c.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	c.Address = strings.TrimSpace(in.Address)
	c.City = strings.TrimSpace(in.City)
}

func (u *CustomerUsecase) List(ctx context.Context, actor model.Identity) ([]model.Customer, error) {
	if err := requireCapability(actor, policy.OpManageCustomers); err != nil {
		return []model.Customer{}, err
	}
	items, err := u.customers.List(ctx)
	if err != nil {
		return []model.Customer{}, fromRepo(err, ErrNotFound)
	}
	return items, nil
}

func (u *CustomerUsecase) Get(ctx context.Context, actor model.Identity, rowKey string) (model.Customer, error) {
	if err := requireCapability(actor, policy.OpManageCustomers); err != nil {
		return model.Customer{}, err
	}
	c, err := u.customers.FindByRowKey(ctx, rowKey)
	if err != nil {
		return model.Customer{}, fromRepo(err, ErrNotFound)
	}
	return c, nil
}

func (u *CustomerUsecase) Create(ctx context.Context, actor model.Identity, in CustomerInput) (model.Customer, error) {
	if err := requireCapability(actor, policy.OpManageCustomers); err != nil {
		return model.Customer{}, err
	}
	if err := validateCustomer(in); err != nil {
		return model.Customer{}, err
	}

	key := strings.TrimSpace(in.RowKey)
	if key == "" {
		key = u.newID()
	}
	c := model.Customer{TableEntity: model.TableEntity{RowKey: key}}
	applyCustomer(&c, in)

	created, err := u.customers.Insert(ctx, c)
	if err != nil {
		return model.Customer{}, fromRepo(err, ErrNotFound)
	}
	return created, nil
}

func (u *CustomerUsecase) Update(ctx context.Context, actor model.Identity, rowKey string, in CustomerInput) (model.Customer, error) {
	if err := requireCapability(actor, policy.OpManageCustomers); err != nil {
		return model.Customer{}, err
	}
	if err := validateCustomer(in); err != nil {
		return model.Customer{}, err
	}

	c, err := u.customers.FindByRowKey(ctx, rowKey)
	if err != nil {
		return model.Customer{}, fromRepo(err, ErrNotFound)
	}
	if in.ETag != "" {
		c.ETag = in.ETag
	}
	applyCustomer(&c, in)

	updated, err := u.customers.Replace(ctx, c)
	if err != nil {
		return model.Customer{}, fromRepo(err, ErrNotFound)
	}
	return updated, nil
}

func (u *CustomerUsecase) Delete(ctx context.Context, actor model.Identity, rowKey string) error {
	if err := requireCapability(actor, policy.OpManageCustomers); err != nil {
		return err
	}
	if err := u.customers.Delete(ctx, rowKey); err != nil {
		return fromRepo(err, ErrNotFound)
	}
	return nil
}
