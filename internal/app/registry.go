package app

import (
	"database/sql"
	"path/filepath"

	"go-leave/internal/allocation"
	"go-leave/internal/approval"
	"go-leave/internal/attendance"
	"go-leave/internal/calendar"
	"go-leave/internal/compensatory"
	"go-leave/internal/employee"
	"go-leave/internal/ledger"
	"go-leave/internal/leaverequest"
	"go-leave/internal/leavetype"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/notification"
	"go-leave/internal/rbac"
	"go-leave/internal/rbac/infra"
	"go-leave/internal/restriction"
	"go-leave/internal/shared/counter"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)
	leaveTypeRepo := leavetype.NewRepository(gormDB)
	calendarRepo := calendar.NewRepository(gormDB)
	ledgerRepo := ledger.NewRepository(gormDB)
	approvalRepo := approval.NewRepository(gormDB)
	restrictionRepo := restriction.NewRepository(gormDB)
	leaveRequestRepo := leaverequest.NewRepository(gormDB)
	allocationRepo := allocation.NewRepository(gormDB)
	compensatoryRepo := compensatory.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(filepath.Join("internal", "rbac", "infra", "model.conf"))
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)

	// --- Services ---
	notifier := notification.NewOutboxNotifier(outboxRepo)
	leaveTypeService := leavetype.NewService(leaveTypeRepo, rdb)
	calendarService := calendar.NewService(calendarRepo, rdb)
	ledgerService := ledger.NewService(ledgerRepo, leaveTypeRepo, employeeRepo, notifier)
	approvalService := approval.NewService(approvalRepo)
	restrictionService := restriction.NewService(restrictionRepo)
	leaveRequestService := leaverequest.NewService(
		leaveRequestRepo,
		leaveTypeRepo,
		employeeRepo,
		calendarService,
		ledgerService,
		approvalService,
		restrictionService,
		counterRepo,
		notifier,
	)
	allocationService := allocation.NewService(allocationRepo, leaveTypeRepo, employeeRepo, ledgerService, notifier)
	compensatoryService := compensatory.NewService(
		compensatoryRepo,
		leaveTypeRepo,
		employeeRepo,
		attendanceRepo,
		calendarService,
		ledgerService,
		notifier,
	)

	// --- Handlers ---
	leaveTypeHandler := leavetype.NewHandler(leaveTypeService)
	calendarHandler := calendar.NewHandler(calendarService)
	ledgerHandler := ledger.NewHandler(ledgerService)
	approvalHandler := approval.NewHandler(approvalService)
	restrictionHandler := restriction.NewHandler(restrictionService)
	leaveRequestHandler := leaverequest.NewHandler(leaveRequestService)
	allocationHandler := allocation.NewHandler(allocationService)
	compensatoryHandler := compensatory.NewHandler(compensatoryService)
	rbacHandler := rbac.NewHandler(rbacService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		leavetype.RegisterRoutes(api, leaveTypeHandler, rbacService)
		calendar.RegisterRoutes(api, calendarHandler, rbacService)
		ledger.RegisterRoutes(api, ledgerHandler, rbacService)
		approval.RegisterRoutes(api, approvalHandler, rbacService)
		restriction.RegisterRoutes(api, restrictionHandler, rbacService)
		leaverequest.RegisterRoutes(api, leaveRequestHandler, rbacService, rdb)
		allocation.RegisterRoutes(api, allocationHandler, rbacService)
		compensatory.RegisterRoutes(api, compensatoryHandler, rbacService)
	}

	rbac.RegisterRoutes(router, rbacHandler)

	return nil
}
