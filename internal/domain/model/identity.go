package model

import "strconv"

// ログイン済みの呼び出し元
type Identity struct {
	UserID    int64
	Username  string
	Role      Role
	SessionID string
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// 顧客エンティティのRowKey（アカウントIDと同じ）
func (i Identity) CustomerRowKey() string {
	return strconv.FormatInt(i.UserID, 10)
}
