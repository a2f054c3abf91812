package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/fsdevblog/groph-market/internal/domain"
	"github.com/fsdevblog/groph-market/internal/repository/repoargs"
	"github.com/fsdevblog/groph-market/internal/transport/api/middlewares"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var errInvalidID = errors.New("invalid id")

// getUserIDFromContext берет из контекста gin ID текущего юзера. ID устанавливается в
// middlewares.AuthRequired. В случае, если значения в контексте нет или ошибка утверждения типа -
// вернется 0.
func getUserIDFromContext(c *gin.Context) int64 {
	userIDStr, exist := c.Get(middlewares.CurrentUserIDKey)
	if !exist {
		return 0
	}
	userID, ok := userIDStr.(int64)
	if !ok {
		return 0
	}
	return userID
}

// getActor текущий юзер с его ролью из токена.
func getActor(c *gin.Context) domain.Actor {
	role, _ := c.Get(middlewares.CurrentUserRoleKey)
	userRole, _ := role.(domain.UserRole)
	return domain.Actor{UserID: getUserIDFromContext(c), Role: userRole}
}

// parseIDParam читает положительный id из параметра маршрута :id. При ошибке прерывает запрос со статусом 400.
func parseIDParam(c *gin.Context) (int64, bool) {
	return parsePositiveParam(c, "id")
}

func parsePositiveParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		_ = c.AbortWithError(http.StatusBadRequest, errInvalidID).SetType(gin.ErrorTypePublic)
		return 0, false
	}
	return id, true
}

type PaginationParams struct {
	Limit  uint `binding:"omitempty,max=500" form:"limit"`
	Offset uint `form:"offset"`
}

func bindPagination(c *gin.Context) (repoargs.Pagination, bool) {
	var params PaginationParams
	if !bindRequest(c, &params, c.ShouldBindQuery) {
		return repoargs.Pagination{}, false
	}
	return repoargs.Pagination{Limit: params.Limit, Offset: params.Offset}, true
}

// bindRequest биндит параметры запроса. Нарушение правил валидации дает 422 со списком полей,
// любая другая ошибка разбора 400.
func bindRequest(c *gin.Context, params any, bind func(any) error) bool {
	bindErr := bind(params)
	if bindErr == nil {
		return true
	}

	var valErrs validator.ValidationErrors
	if errors.As(bindErr, &valErrs) {
		_ = c.AbortWithError(http.StatusUnprocessableEntity, validationMessage(valErrs)).
			SetType(gin.ErrorTypePublic)
		return false
	}
	_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
	return false
}

func validationMessage(valErrs validator.ValidationErrors) error {
	fields := make([]string, len(valErrs))
	for i, fe := range valErrs {
		fields[i] = fmt.Sprintf("%s: failed on %s", fe.Field(), fe.Tag())
	}
	return errors.New("invalid fields: " + strings.Join(fields, "; "))
}

// serviceErrorStatus http статус по виду ошибки домена.
func serviceErrorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrDuplicateKey):
		return http.StatusConflict
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// abortWithServiceError прерывает запрос ошибкой сервиса. Клиент видит только сообщение ошибки домена,
// остальное уходит в лог.
func abortWithServiceError(c *gin.Context, err error) {
	status := serviceErrorStatus(err)
	msg, ok := domain.PublicMessage(err)
	if status == http.StatusInternalServerError || !ok {
		_ = c.AbortWithError(status, err).SetType(gin.ErrorTypePrivate)
		return
	}
	_ = c.Error(err).SetType(gin.ErrorTypePrivate)
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
