package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"employee-admin/internal/employee/config"
	"employee-admin/internal/employee/domain/model"
	"employee-admin/internal/employee/domain/repository"
	apperrors "employee-admin/internal/shared/errors"
	"employee-admin/internal/shared/logger"
)

// maxSkip bounds the offset (page-1)*limit handed to the repository.
const maxSkip = math.MaxInt32

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrEmailTaken       = errors.New("email already exists")
	ErrUniqueIDTaken    = errors.New("employee id already exists")
)

// EmployeeUsecaseInterface defines the contract for employee record use cases.
type EmployeeUsecaseInterface interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (*model.Employee, error)
	List(ctx context.Context, query model.ListQuery) (*model.ListResult, error)
	Get(ctx context.Context, id string) (*model.Employee, error)
	Edit(ctx context.Context, id string, req EditEmployeeRequest) (*model.Employee, error)
	Delete(ctx context.Context, id string) error
}

// EmployeeUsecase implements employee record management.
type EmployeeUsecase struct {
	repo     repository.EmployeeRepository
	ids      repository.UniqueIDAllocator
	pictures repository.PictureStore
	hasher   repository.PasswordHasher
	config   *config.Config
	log      logger.Logger
	now      func() time.Time
}

// NewEmployeeUsecase creates a new instance of EmployeeUsecase.
func NewEmployeeUsecase(
	repo repository.EmployeeRepository,
	ids repository.UniqueIDAllocator,
	pictures repository.PictureStore,
	hasher repository.PasswordHasher,
	cfg *config.Config,
	log logger.Logger,
) *EmployeeUsecase {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &EmployeeUsecase{
		repo:     repo,
		ids:      ids,
		pictures: pictures,
		hasher:   hasher,
		config:   cfg,
		log:      log.WithComponent("employee"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Create validates and stores a new employee. A picture written for the
// record is removed again if the insert fails.
func (uc *EmployeeUsecase) Create(ctx context.Context, req CreateEmployeeRequest) (*model.Employee, error) {
	req.normalize()
	if errs := employeeSchema.Validate(&req); errs != nil {
		return nil, errs
	}
	if req.Upload == nil && uc.pictures.Owns(req.ProfilePic) {
		return nil, errPictureNotUploaded()
	}

	hash, err := uc.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	uniqueID, err := uc.ids.NextUniqueID(ctx)
	if err != nil {
		return nil, err
	}

	profilePic, stored, err := uc.resolvePicture(ctx, req.Upload, req.ProfilePic)
	if err != nil {
		return nil, err
	}
	if profilePic == "" {
		profilePic = uc.config.DefaultProfilePic
	}

	now := uc.now()
	employee := &model.Employee{
		UniqueID:     uniqueID,
		FullName:     req.FullName,
		Email:        req.Email,
		Mobile:       req.Mobile,
		Designation:  req.Designation,
		Gender:       req.Gender,
		Course:       req.Course,
		ProfilePic:   profilePic,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := uc.repo.Create(ctx, employee); err != nil {
		if stored {
			uc.discard(ctx, profilePic)
		}
		return nil, mapRepositoryError(err)
	}

	uc.log.WithContext(ctx).WithFields(map[string]interface{}{
		"employee_id": employee.ID.Hex(),
		"unique_id":   employee.UniqueID,
	}).Info("employee created")

	return employee.Public(), nil
}

// List returns employees newest first, optionally filtered and paged.
func (uc *EmployeeUsecase) List(ctx context.Context, query model.ListQuery) (*model.ListResult, error) {
	if query.Limit < 0 {
		query.Limit = 0
	}
	if query.Limit > uc.config.MaxPageSize {
		query.Limit = uc.config.MaxPageSize
	}
	if query.Page < 1 {
		query.Page = 1
	}
	if query.Limit > 0 && query.Page > maxSkip/query.Limit {
		// past the last representable offset every page is empty anyway
		query.Page = maxSkip/query.Limit + 1
	}

	employees, total, err := uc.repo.List(ctx, query)
	if err != nil {
		return nil, err
	}
	for i, e := range employees {
		employees[i] = e.Public()
	}
	return &model.ListResult{Employees: employees, Total: total}, nil
}

// Get returns one employee.
func (uc *EmployeeUsecase) Get(ctx context.Context, id string) (*model.Employee, error) {
	employee, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return employee.Public(), nil
}

// Edit replaces only the supplied fields. A newly written picture is removed
// if the update fails; the replaced picture is removed once it succeeds.
func (uc *EmployeeUsecase) Edit(ctx context.Context, id string, req EditEmployeeRequest) (*model.Employee, error) {
	req.normalize()
	if errs := employeeSchema.Validate(&req); errs != nil {
		return nil, errs
	}

	patch := model.EmployeePatch{
		FullName:    req.FullName,
		Email:       req.Email,
		Mobile:      req.Mobile,
		Designation: req.Designation,
		Gender:      req.Gender,
		Course:      req.Course,
		UpdatedAt:   uc.now(),
	}

	var ref string
	if req.ProfilePic != nil {
		ref = *req.ProfilePic
	}
	if req.Upload == nil && uc.pictures.Owns(ref) {
		// only the record already holding a stored file may name it
		current, err := uc.repo.GetByID(ctx, id)
		if err != nil {
			return nil, mapRepositoryError(err)
		}
		if current.ProfilePic != ref {
			return nil, errPictureNotUploaded()
		}
		ref = ""
	}
	profilePic, stored, err := uc.resolvePicture(ctx, req.Upload, ref)
	if err != nil {
		return nil, err
	}
	if profilePic != "" {
		patch.ProfilePic = &profilePic
	}

	before, err := uc.repo.Update(ctx, id, patch)
	if err != nil {
		if stored {
			uc.discard(ctx, profilePic)
		}
		return nil, mapRepositoryError(err)
	}

	if patch.ProfilePic != nil && before.ProfilePic != profilePic {
		uc.discard(ctx, before.ProfilePic)
	}

	uc.log.WithContext(ctx).WithFields(map[string]interface{}{
		"employee_id": id,
	}).Info("employee updated")

	return patch.Apply(before).Public(), nil
}

// Delete removes the employee and its uploaded picture.
func (uc *EmployeeUsecase) Delete(ctx context.Context, id string) error {
	deleted, err := uc.repo.Delete(ctx, id)
	if err != nil {
		return mapRepositoryError(err)
	}
	uc.discard(ctx, deleted.ProfilePic)

	uc.log.WithContext(ctx).WithFields(map[string]interface{}{
		"employee_id": id,
		"unique_id":   deleted.UniqueID,
	}).Info("employee deleted")
	return nil
}

// resolvePicture stores an upload or falls back to the string reference.
// stored reports whether a new file was written.
func (uc *EmployeeUsecase) resolvePicture(ctx context.Context, upload *repository.Upload, ref string) (string, bool, error) {
	if upload != nil {
		name, err := uc.pictures.Save(ctx, upload)
		if err != nil {
			return "", false, pictureError(err)
		}
		return name, true, nil
	}
	return ref, false, nil
}

func (uc *EmployeeUsecase) discard(ctx context.Context, ref string) {
	if ref == "" {
		return
	}
	if err := uc.pictures.Remove(ctx, ref); err != nil {
		uc.log.WithContext(ctx).WithError(err).Warnf("failed to remove picture %q", ref)
	}
}

func pictureError(err error) error {
	switch {
	case errors.Is(err, repository.ErrUnsupportedPicture):
		return apperrors.NewValidationErrors().Add("profilePic", "Profile picture must be in PNG or JPG format", nil)
	case errors.Is(err, repository.ErrPictureTooLarge):
		return apperrors.NewValidationErrors().Add("profilePic", "Profile picture is too large", nil)
	}
	return fmt.Errorf("failed to store picture: %w", err)
}

// errPictureNotUploaded rejects string references naming a stored file. Stored
// files are deleted with their record, so a second record must not point at one.
func errPictureNotUploaded() error {
	return apperrors.NewValidationErrors().Add("profilePic", "Profile picture must be uploaded as a file", nil)
}

func mapRepositoryError(err error) error {
	switch {
	case errors.Is(err, repository.ErrEmployeeNotFound):
		return ErrEmployeeNotFound
	case errors.Is(err, repository.ErrDuplicateEmail):
		return ErrEmailTaken
	case errors.Is(err, repository.ErrDuplicateUniqueID):
		return ErrUniqueIDTaken
	}
	return err
}

// ToAppError maps usecase errors onto the shared error types rendered by HTTP handlers.
func ToAppError(err error) error {
	var ve *apperrors.ValidationErrors
	switch {
	case err == nil:
		return nil
	case errors.As(err, &ve):
		return ve
	case errors.Is(err, ErrEmployeeNotFound):
		return apperrors.NewNotFoundError("Employee").WithCause(err)
	case errors.Is(err, ErrEmailTaken):
		return apperrors.NewConflictError("Email already exists").WithCause(err)
	case errors.Is(err, ErrUniqueIDTaken):
		return apperrors.NewConflictError("Employee ID already exists").WithCause(err)
	default:
		return apperrors.WrapError(err, "Server error")
	}
}
