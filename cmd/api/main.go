package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/UbaidDecojent/attendance-system-sub000/internal/config"
	appHTTP "github.com/UbaidDecojent/attendance-system-sub000/internal/handler/http"
	"github.com/UbaidDecojent/attendance-system-sub000/internal/pkg/clock"
	"github.com/UbaidDecojent/attendance-system-sub000/internal/pkg/cron"
	"github.com/UbaidDecojent/attendance-system-sub000/internal/pkg/database"
	"github.com/UbaidDecojent/attendance-system-sub000/internal/pkg/jwt"
	"github.com/UbaidDecojent/attendance-system-sub000/internal/repository/postgresql"
	attendanceService "github.com/UbaidDecojent/attendance-system-sub000/internal/service/attendance"
	historyService "github.com/UbaidDecojent/attendance-system-sub000/internal/service/history"
	notificationService "github.com/UbaidDecojent/attendance-system-sub000/internal/service/notification"
	regularizationService "github.com/UbaidDecojent/attendance-system-sub000/internal/service/regularization"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	attendanceRepo := postgresql.NewAttendanceRepository(db)
	regularizationRepo := postgresql.NewRegularizationRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	companyRepo := postgresql.NewCompanyRepository(db)
	shiftRepo := postgresql.NewShiftRepository(db)
	leaveRepo := postgresql.NewLeaveRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)
	historyRepo := postgresql.NewHistoryRepository(db)
	txRunner := postgresql.NewTxRunner(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	zonedClock := clock.NewZoned(clock.System{})
	resolver := attendanceService.NewShiftResolver(shiftRepo)

	notificationSvc := notificationService.NewNotificationService(notificationRepo)
	attendanceSvc := attendanceService.NewAttendanceService(
		attendanceRepo,
		employeeRepo,
		companyRepo,
		leaveRepo,
		notificationSvc,
		resolver,
		zonedClock,
	)
	regularizationSvc := regularizationService.NewRegularizationService(
		txRunner,
		regularizationRepo,
		attendanceRepo,
		employeeRepo,
		companyRepo,
		notificationSvc,
		resolver,
		zonedClock,
	)
	historySvc := historyService.NewHistoryService(
		historyRepo,
		attendanceRepo,
		employeeRepo,
		companyRepo,
		shiftRepo,
		leaveRepo,
	)

	scheduler := cron.NewScheduler()
	attendanceJobs := cron.NewAttendanceJobs(
		attendanceRepo,
		employeeRepo,
		shiftRepo,
		companyRepo,
		notificationSvc,
		zonedClock,
		time.Duration(cfg.Cron.LateSweepIntervalMinutes)*time.Minute,
	)
	attendanceJobs.RegisterJobs(scheduler)
	scheduler.Start()

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	historyHandler := appHTTP.NewHistoryHandler(historySvc)
	regularizationHandler := appHTTP.NewRegularizationHandler(regularizationSvc)

	router := appHTTP.NewRouter(
		JWTService,
		attendanceHandler,
		historyHandler,
		regularizationHandler,
		cfg.App.Env,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	server := &http.Server{Addr: port, Handler: router}

	go func() {
		fmt.Printf("Server running at http://localhost%s\n", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Println("Server error:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		fmt.Println("Server shutdown error:", err)
	}
}
