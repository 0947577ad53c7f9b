package middleware

import (
	"errors"
	"net/http"
	"strconv"

	"storefront/internal/config"
	"storefront/internal/domain/model"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

// セッショントークンを入れるcookie名
const SessionCookieName = "session"

const (
	CtxIdentityKey = "identity"  // model.Identity
	CtxUserIDKey   = "user_id"   // int64
	CtxUserRoleKey = "user_role" // model.Role
)

// cookieのJWTを検証してIdentityをcontextに入れる。
func AuthCookie(cfg config.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ck, err := c.Cookie(SessionCookieName)
			if err != nil || ck.Value == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			id, err := ParseSessionToken(cfg.JWTSecret, ck.Value)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//contextへ保存
			c.Set(CtxIdentityKey, id)
			c.Set(CtxUserIDKey, id.UserID)
			c.Set(CtxUserRoleKey, id.Role)

			return next(c)
		}
	}
}

// JWTをパースしてIdentityを組み立てる
func ParseSessionToken(secret, raw string) (model.Identity, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || token == nil || !token.Valid {
		return model.Identity{}, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return model.Identity{}, errors.New("invalid claims")
	}

	userID, err := parseUserID(claims["sub"])
	if err != nil || userID <= 0 {
		return model.Identity{}, errors.New("invalid sub")
	}

	//roleはUser/Adminのどちらか
	rawRole, err := parseString(claims["role"])
	if err != nil {
		return model.Identity{}, err
	}
	role, err := model.ParseRole(rawRole)
	if err != nil {
		return model.Identity{}, err
	}

	name, err := parseString(claims["name"])
	if err != nil || name == "" {
		return model.Identity{}, errors.New("invalid name")
	}
	sid, err := parseString(claims["sid"])
	if err != nil || sid == "" {
		return model.Identity{}, errors.New("invalid sid")
	}

	return model.Identity{UserID: userID, Username: name, Role: role, SessionID: sid}, nil
}

// handlerから呼び出し元を取り出す
func IdentityFrom(c echo.Context) (model.Identity, bool) {
	id, ok := c.Get(CtxIdentityKey).(model.Identity)
	return id, ok && id.UserID > 0
}

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}

// user_idをint64に変換する
func parseUserID(v interface{}) (int64, error) {
	switch t := v.(type) {
	case float64:
		return int64(t), nil
	case string:
		return strconv.ParseInt(t, 10, 64)
	default:
		return 0, errors.New("invalid sub")
	}
}

func parseString(v interface{}) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", errors.New("invalid string")
	}
	return s, nil
}
