package http

import (
	"errors"
	"io"
	"strings"

	"employee-admin/internal/employee/domain/model"
	"employee-admin/internal/employee/domain/repository"
	"employee-admin/internal/employee/usecase"
	apperrors "employee-admin/internal/shared/errors"
	"employee-admin/internal/shared/httpresp"
	"employee-admin/internal/shared/logger"
	"employee-admin/internal/shared/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

const pictureField = "profilePic"

// EmployeeHTTPHandler handles HTTP requests for employee records
type EmployeeHTTPHandler struct {
	usecase        usecase.EmployeeUsecaseInterface
	maxUploadBytes int64
	metrics        *metrics.Metrics
	log            logger.Logger
}

// NewEmployeeHTTPHandler creates a new employee HTTP handler. m may be nil.
func NewEmployeeHTTPHandler(uc usecase.EmployeeUsecaseInterface, maxUploadBytes int64, m *metrics.Metrics, log logger.Logger) *EmployeeHTTPHandler {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &EmployeeHTTPHandler{
		usecase:        uc,
		maxUploadBytes: maxUploadBytes,
		metrics:        m,
		log:            log.WithComponent("employee_http"),
	}
}

// SetupEmployeeRoutes registers the employee routes behind protect.
func (h *EmployeeHTTPHandler) SetupEmployeeRoutes(router fiber.Router, protect fiber.Handler) {
	router.Post("/employee-create", protect, h.CreateEmployee)
	router.Get("/employees", protect, h.ListEmployees)
	router.Get("/employee/:id", protect, h.GetEmployee)
	router.Put("/employee/:id", protect, h.EditEmployee)
	router.Delete("/employee/:id", protect, h.DeleteEmployee)
}

// CreateEmployee handles POST /employee-create with a JSON or multipart body.
func (h *EmployeeHTTPHandler) CreateEmployee(c *fiber.Ctx) error {
	var req usecase.CreateEmployeeRequest
	if err := c.BodyParser(&req); err != nil {
		return httpresp.Message(c, fiber.StatusBadRequest, "Invalid request body")
	}

	upload, err := h.readUpload(c)
	if err != nil {
		return h.fail(c, err)
	}
	req.Upload = upload

	employee, err := h.usecase.Create(c.UserContext(), req)
	h.metrics.ObserveEmployeeOperation("create", err)
	if err != nil {
		return h.fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Employee created successfully",
		"employee": employee,
	})
}

// ListEmployees handles GET /employees?search=&page=&limit=.
func (h *EmployeeHTTPHandler) ListEmployees(c *fiber.Ctx) error {
	result, err := h.usecase.List(c.UserContext(), model.ListQuery{
		Search: strings.TrimSpace(c.Query("search")),
		Page:   c.QueryInt("page", 1),
		Limit:  c.QueryInt("limit", 0),
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(result)
}

// GetEmployee handles GET /employee/:id.
func (h *EmployeeHTTPHandler) GetEmployee(c *fiber.Ctx) error {
	employee, err := h.usecase.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"employee": employee})
}

// EditEmployee handles PUT /employee/:id. Only fields present in the body are
// changed.
func (h *EmployeeHTTPHandler) EditEmployee(c *fiber.Ctx) error {
	var req usecase.EditEmployeeRequest
	if isMultipart(c) {
		form, err := c.MultipartForm()
		if err != nil {
			return httpresp.Message(c, fiber.StatusBadRequest, "Invalid request body")
		}
		req = editFromValues(func(key string) (string, bool) {
			if vs, ok := form.Value[key]; ok && len(vs) > 0 {
				return vs[0], true
			}
			return "", false
		})
	} else if hasContentType(c, fiber.MIMEApplicationForm) {
		args := c.Request().PostArgs()
		req = editFromValues(func(key string) (string, bool) {
			if !args.Has(key) {
				return "", false
			}
			return string(args.Peek(key)), true
		})
	} else if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return httpresp.Message(c, fiber.StatusBadRequest, "Invalid request body")
		}
	}

	upload, err := h.readUpload(c)
	if err != nil {
		return h.fail(c, err)
	}
	req.Upload = upload

	employee, err := h.usecase.Edit(c.UserContext(), c.Params("id"), req)
	h.metrics.ObserveEmployeeOperation("edit", err)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{
		"message":  "Employee updated successfully",
		"employee": employee,
	})
}

// DeleteEmployee handles DELETE /employee/:id.
func (h *EmployeeHTTPHandler) DeleteEmployee(c *fiber.Ctx) error {
	err := h.usecase.Delete(c.UserContext(), c.Params("id"))
	h.metrics.ObserveEmployeeOperation("delete", err)
	if err != nil {
		return h.fail(c, err)
	}
	return httpresp.Message(c, fiber.StatusOK, "Employee deleted successfully")
}

// readUpload returns the profilePic file part, or nil when the request has none.
func (h *EmployeeHTTPHandler) readUpload(c *fiber.Ctx) (*repository.Upload, error) {
	if !isMultipart(c) {
		return nil, nil
	}
	fh, err := c.FormFile(pictureField)
	if err != nil {
		if errors.Is(err, fasthttp.ErrMissingFile) {
			return nil, nil
		}
		return nil, apperrors.NewValidationErrors().Add(pictureField, "Invalid profile picture upload", nil)
	}
	if fh.Size > h.maxUploadBytes {
		return nil, apperrors.NewValidationErrors().Add(pictureField, "Profile picture is too large", nil)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.maxUploadBytes+1))
	if err != nil {
		return nil, err
	}
	return &repository.Upload{Filename: fh.Filename, Data: data}, nil
}

func (h *EmployeeHTTPHandler) fail(c *fiber.Ctx, err error) error {
	appErr := usecase.ToAppError(err)
	if apperrors.IsInternal(appErr) {
		h.log.WithContext(c.UserContext()).WithError(err).Error("employee request failed")
	}
	return httpresp.Error(c, appErr)
}

func isMultipart(c *fiber.Ctx) bool {
	return hasContentType(c, fiber.MIMEMultipartForm)
}

func hasContentType(c *fiber.Ctx, mime string) bool {
	return strings.HasPrefix(string(c.Request().Header.ContentType()), mime)
}

// editFromValues maps the supplied form fields onto an edit request; fields
// absent from the form stay nil.
func editFromValues(lookup func(key string) (string, bool)) usecase.EditEmployeeRequest {
	value := func(key string) *string {
		if v, ok := lookup(key); ok {
			return &v
		}
		return nil
	}
	return usecase.EditEmployeeRequest{
		FullName:    value("fullName"),
		Email:       value("email"),
		Mobile:      value("mobile"),
		Designation: value("designation"),
		Gender:      value("gender"),
		Course:      value("course"),
		Password:    value("password"),
		ProfilePic:  value(pictureField),
	}
}
