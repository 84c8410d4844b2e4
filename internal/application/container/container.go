// Package container provides dependency injection for all singleton services
package container

import (
	"github.com/shopcanopy/splitrank-go/internal/application/services"
	"github.com/shopcanopy/splitrank-go/internal/domain/catalog"
	"github.com/shopcanopy/splitrank-go/internal/domain/experiment"
	"github.com/shopcanopy/splitrank-go/internal/domain/user"
	"github.com/shopcanopy/splitrank-go/internal/infrastructure/caching/manager"
	"github.com/shopcanopy/splitrank-go/internal/infrastructure/observability/logging"
	"github.com/shopcanopy/splitrank-go/internal/infrastructure/persistence/database"
	catalogRepo "github.com/shopcanopy/splitrank-go/internal/infrastructure/persistence/catalog"
	eventsRepo "github.com/shopcanopy/splitrank-go/internal/infrastructure/persistence/events"
	userRepo "github.com/shopcanopy/splitrank-go/internal/infrastructure/persistence/user"
	"github.com/shopcanopy/splitrank-go/internal/infrastructure/recommender"
	"github.com/shopcanopy/splitrank-go/pkg/config"
)

// Container holds all singleton services and infrastructure dependencies
type Container struct {
	// Application services (stateless singletons)
	AuthService           *services.AuthService
	AssignmentService     *services.AssignmentService
	StatsService          *services.StatsService
	EventService          *services.EventService
	RecommendationService *services.RecommendationService

	// Repositories
	UserRepository    user.Repository
	ProductRepository catalog.Repository

	// Infrastructure Dependencies
	ExperimentTable *experiment.Table
	CacheManager    *manager.Manager
	Logger          *logging.ChanneledLogger
	DB              *database.DB
}

// NewContainer creates and wires all singleton services
func NewContainer(db *database.DB, table *experiment.Table, logger *logging.ChanneledLogger) *Container {
	cacheManager := manager.NewManager(config.StatsCacheTTL, config.SessionTTL, logger)

	users := userRepo.NewSQLUserRepository(db, logger)
	products := catalogRepo.NewSQLProductRepository(db, logger)
	events := eventsRepo.NewSQLEventRepository(db, logger)

	statsService := services.NewStatsService(events, cacheManager, logger)
	assignmentService := services.NewAssignmentService(
		table,
		users,
		cacheManager,
		statsService,
		experiment.NewSelector(),
		logger,
	)
	eventService := services.NewEventService(events, config.EventQueueSize, logger)

	recommenderClient := recommender.NewClient(config.RecommenderBaseURL, config.RecommenderTimeout, logger)
	recommendationService := services.NewRecommendationService(recommenderClient, products, logger)

	return &Container{
		AuthService:           services.NewAuthService(users, logger),
		AssignmentService:     assignmentService,
		StatsService:          statsService,
		EventService:          eventService,
		RecommendationService: recommendationService,

		UserRepository:    users,
		ProductRepository: products,

		ExperimentTable: table,
		CacheManager:    cacheManager,
		Logger:          logger,
		DB:              db,
	}
}
