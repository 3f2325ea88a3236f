package employee

import (
	"context"
	"fmt"

	"employee-admin/internal/auth/adapter/security"
	employeehttp "employee-admin/internal/employee/adapter/http"
	"employee-admin/internal/employee/adapter/persistence/mongodb"
	"employee-admin/internal/employee/adapter/storage"
	"employee-admin/internal/employee/config"
	"employee-admin/internal/employee/usecase"
	"employee-admin/internal/shared/logger"
	"employee-admin/internal/shared/metrics"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"
)

// EmployeeModule wires employee record management
type EmployeeModule struct {
	repository *mongodb.MongoEmployeeRepository
	pictures   *storage.LocalPictureStore
	usecase    usecase.EmployeeUsecaseInterface
	handler    *employeehttp.EmployeeHTTPHandler
	config     *config.Config
}

// NewEmployeeModule creates the employee module. Uploaded pictures are kept
// under cfg.UploadDir.
func NewEmployeeModule(db *mongo.Database, cfg *config.Config, m *metrics.Metrics, log logger.Logger) (*EmployeeModule, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}

	pictures, err := storage.NewLocalPictureStore(cfg.UploadDir, cfg.MaxUploadBytes, cfg.PictureMaxDimension)
	if err != nil {
		return nil, fmt.Errorf("failed to create picture store: %w", err)
	}

	repo := mongodb.NewMongoEmployeeRepository(db)
	ids := mongodb.NewMongoCounterRepository(db, cfg.EmployeeIDPrefix)

	employeeUsecase := usecase.NewEmployeeUsecase(repo, ids, pictures, security.NewBcryptHasher(cfg.BcryptCost), cfg, log)

	return &EmployeeModule{
		repository: repo,
		pictures:   pictures,
		usecase:    employeeUsecase,
		handler:    employeehttp.NewEmployeeHTTPHandler(employeeUsecase, cfg.MaxUploadBytes, m, log),
		config:     cfg,
	}, nil
}

// Start creates the collection indexes.
func (em *EmployeeModule) Start(ctx context.Context) error {
	return em.repository.EnsureIndexes(ctx)
}

// RegisterRoutes registers the employee API behind protect.
func (em *EmployeeModule) RegisterRoutes(router fiber.Router, protect fiber.Handler) {
	em.handler.SetupEmployeeRoutes(router, protect)
}

// RegisterStatic serves uploaded pictures under the configured public path.
func (em *EmployeeModule) RegisterStatic(app *fiber.App) {
	app.Static(em.config.PublicPath, em.pictures.Dir(), fiber.Static{
		Browse: false,
		MaxAge: 86400,
	})
}

// GetUsecase returns the employee usecase for external access
func (em *EmployeeModule) GetUsecase() usecase.EmployeeUsecaseInterface {
	return em.usecase
}
