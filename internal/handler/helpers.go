package handler

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/MiguelAngelEc/preciosSoley/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	return validateStruct(c, req)
}

// bindQueryAndValidate does the same for query-string parameters.
func bindQueryAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("query invalida: "+err.Error()))
		return false
	}
	return validateStruct(c, req)
}

func validateStruct(c *gin.Context, req interface{}) bool {
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// parseID parses the named path parameter as a UUID, writing the 400 response
// on failure.
func parseID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return uuid.Nil, false
	}
	return id, true
}

// respondError maps the service error taxonomy onto HTTP statuses:
// validation 422, unknown id 404, stock/state conflicts 409, everything
// else 500 via the ErrorHandler middleware (which logs and hides details).
func respondError(c *gin.Context, err error) {
	var vErr *apierror.ValidationError
	var nfErr *apierror.NotFoundError
	var stockErr *apierror.InsufficientStockError
	var cErr *apierror.ConflictError

	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusUnprocessableEntity, vErr)
	case errors.As(err, &nfErr):
		c.JSON(http.StatusNotFound, apierror.New(nfErr.Error()))
	case errors.As(err, &stockErr):
		c.JSON(http.StatusConflict, gin.H{
			"detail":     stockErr.Error(),
			"disponible": stockErr.Disponible,
			"solicitado": stockErr.Solicitado,
		})
	case errors.As(err, &cErr):
		c.JSON(http.StatusConflict, cErr)
	default:
		// Registered, not written: the ErrorHandler middleware logs the cause
		// and emits the single 500 body.
		_ = c.Error(err)
		c.Abort()
	}
}
