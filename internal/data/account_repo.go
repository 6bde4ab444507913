package data

import (
	"context"
	"errors"

	"github.com/itshubble/hubble-server/internal/biz"
	"github.com/itshubble/hubble-server/internal/data/model"

	"github.com/go-kratos/kratos/v2/log"
	"gorm.io/gorm"
)

// accountRepo 账户仓库实现
type accountRepo struct {
	data *Data
	log  *log.Helper
}

// NewAccountRepo 创建账户仓库
func NewAccountRepo(data *Data, logger log.Logger) biz.AccountRepo {
	return &accountRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

// GetAccount 按ID获取账户
func (r *accountRepo) GetAccount(ctx context.Context, id string) (*biz.Account, error) {
	var m model.Account
	err := r.data.DB(ctx).Where("account_id = ? AND deleted = ?", id, false).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		r.log.Errorf("Failed to get account %s: %v", id, err)
		return nil, err
	}
	return toBizAccount(&m), nil
}

// GetAccountForOwner 获取归属指定用户且未删除的账户
func (r *accountRepo) GetAccountForOwner(ctx context.Context, ownerID, id string) (*biz.Account, error) {
	var m model.Account
	err := r.data.DB(ctx).Where("account_id = ? AND owner_id = ? AND deleted = ?", id, ownerID, false).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		r.log.Errorf("Failed to get account %s for owner %s: %v", id, ownerID, err)
		return nil, err
	}
	return toBizAccount(&m), nil
}

// toBizAccount 模型转业务对象
func toBizAccount(m *model.Account) *biz.Account {
	return &biz.Account{
		ID:           m.ID,
		OwnerID:      m.OwnerID,
		UserName:     m.UserName,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		EmailAddress: m.EmailAddress,
		Deleted:      m.Deleted,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
