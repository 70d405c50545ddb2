package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"interfaz/internal/apierror"
	"interfaz/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
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

	// Report fields by their wire name (json, or form for query filters).
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails;
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			c.JSON(http.StatusBadRequest, apierror.NewValidation(apierror.Field(typeErr.Field, "Tipo de dato inválido.")))
			return false
		}
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	return validar(c, req)
}

// bindQuery binds query-string filters and validates them.
func bindQuery(c *gin.Context, filter interface{}) bool {
	if err := c.ShouldBindQuery(filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parametros invalidos: "+err.Error()))
		return false
	}
	return validar(c, filter)
}

func validar(c *gin.Context, req interface{}) bool {
	err := validate.Struct(req)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return false
	}
	c.JSON(http.StatusBadRequest, apierror.NewValidation(erroresDeCampo(verrs)))
	return false
}

func erroresDeCampo(verrs validator.ValidationErrors) apierror.FieldErrors {
	fe := apierror.FieldErrors{}
	for _, e := range verrs {
		campo := e.Namespace()
		// Drop the root struct name: "CrearPedidoRequest.items[0].quantity".
		if i := strings.Index(campo, "."); i >= 0 {
			campo = campo[i+1:]
		}
		fe.Add(campo, mensajeValidacion(e))
	}
	return fe
}

func mensajeValidacion(e validator.FieldError) string {
	esTexto := e.Kind() == reflect.String
	esLista := e.Kind() == reflect.Slice || e.Kind() == reflect.Array
	switch e.Tag() {
	case "required":
		return "Este campo es requerido."
	case "uuid":
		return "Debe ser un UUID válido."
	case "email":
		return "Introduzca una dirección de correo electrónico válida."
	case "oneof":
		return fmt.Sprintf("\"%v\" no es una elección válida.", e.Value())
	case "datetime":
		return "Formato de fecha inválido. Use AAAA-MM-DD."
	case "gt":
		return fmt.Sprintf("Debe ser mayor a %s.", e.Param())
	case "gte":
		return fmt.Sprintf("Debe ser mayor o igual a %s.", e.Param())
	case "min":
		if esTexto {
			return fmt.Sprintf("Asegúrese de que este campo tenga al menos %s caracteres.", e.Param())
		}
		if esLista {
			return fmt.Sprintf("Debe contener al menos %s elemento(s).", e.Param())
		}
		return fmt.Sprintf("Debe ser mayor o igual a %s.", e.Param())
	case "max":
		if esTexto {
			return fmt.Sprintf("Asegúrese de que este campo no tenga más de %s caracteres.", e.Param())
		}
		return fmt.Sprintf("Debe ser menor o igual a %s.", e.Param())
	}
	return "Valor inválido."
}

// parseID reads a UUID path parameter, answering 400 when it is malformed.
func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return uuid.Nil, false
	}
	return id, true
}

// responderError maps service errors to HTTP responses. Anything unknown is
// attached to the context so ErrorHandler logs it and answers 500.
func responderError(c *gin.Context, err error) {
	var (
		fe    apierror.FieldErrors
		stock *service.StockInsuficienteError
		nf    *service.NoEncontradoError
	)
	switch {
	case errors.As(err, &fe):
		c.JSON(http.StatusBadRequest, apierror.NewValidation(fe))
	case errors.As(err, &stock):
		c.JSON(http.StatusBadRequest, apierror.New(stock.Error()))
	case errors.As(err, &nf):
		c.JSON(http.StatusNotFound, apierror.New(nf.Error()))
	case errors.Is(err, service.ErrEstadoInvalido),
		errors.Is(err, service.ErrProductoEnUso),
		errors.Is(err, service.ErrProductoConHistorial):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.Is(err, gorm.ErrDuplicatedKey):
		c.JSON(http.StatusConflict, apierror.New("Ya existe un registro con esos datos"))
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		c.JSON(http.StatusConflict, apierror.New("El registro está referenciado por otros datos"))
	case errors.Is(err, service.ErrCredencialesInvalidas),
		errors.Is(err, service.ErrTokenInvalido),
		errors.Is(err, service.ErrUsuarioInactivo):
		c.JSON(http.StatusUnauthorized, apierror.New(err.Error()))
	default:
		_ = c.Error(err)
	}
}

// responderErrorPayload is responderError for writes whose payload names
// other records: a referenced record that does not exist is a bad request,
// not a missing resource.
func responderErrorPayload(c *gin.Context, err error) {
	var nf *service.NoEncontradoError
	if errors.As(err, &nf) {
		c.JSON(http.StatusBadRequest, apierror.New(nf.Error()))
		return
	}
	responderError(c, err)
}
