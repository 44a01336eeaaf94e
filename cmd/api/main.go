package main

import (
	"fmt"
	"net/http"

	"github.com/clockwise-hq/timeclock-backend-go/internal/config"
	appHTTP "github.com/clockwise-hq/timeclock-backend-go/internal/handler/http"
	"github.com/clockwise-hq/timeclock-backend-go/internal/pkg/cron"
	"github.com/clockwise-hq/timeclock-backend-go/internal/pkg/database"
	"github.com/clockwise-hq/timeclock-backend-go/internal/pkg/jwt"
	"github.com/clockwise-hq/timeclock-backend-go/internal/repository/postgresql"
	authService "github.com/clockwise-hq/timeclock-backend-go/internal/service/auth"
	employeeService "github.com/clockwise-hq/timeclock-backend-go/internal/service/employee"
	"github.com/clockwise-hq/timeclock-backend-go/internal/service/notify"
	reportService "github.com/clockwise-hq/timeclock-backend-go/internal/service/report"
	rulesService "github.com/clockwise-hq/timeclock-backend-go/internal/service/rules"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	userRepo := postgresql.NewUserRepository(db)
	workdayRepo := postgresql.NewWorkdayRepository(db)
	eventRepo := postgresql.NewEventRepository(db)
	miniBreakRepo := postgresql.NewMiniBreakRepository(db)
	incidentRepo := postgresql.NewIncidentRepository(db)

	jwtSvc := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	authSvc := authService.NewAuthService(userRepo, jwtSvc)
	employeeSvc := employeeService.NewEmployeeService(userRepo, workdayRepo)
	rulesSvc := rulesService.NewRulesService(db, userRepo, workdayRepo, eventRepo, miniBreakRepo, incidentRepo)
	reportSvc := reportService.NewReportService(userRepo, workdayRepo, eventRepo, miniBreakRepo, incidentRepo)
	notifier := notify.NewNotifier(incidentRepo, userRepo, nil)

	jobs := cron.NewAttendanceJobs(rulesSvc, notifier, userRepo)
	scheduler := cron.NewScheduler()
	jobs.RegisterJobs(scheduler, cfg.Cron.AutoCloseInterval, cfg.Cron.NotifyInterval)
	scheduler.Start()
	defer scheduler.Stop()

	authHandler := appHTTP.NewAuthHandler(authSvc)
	attendanceHandler := appHTTP.NewAttendanceHandler(rulesSvc, reportSvc)
	adminHandler := appHTTP.NewAdminHandler(employeeSvc, reportSvc, rulesSvc, jobs)

	router := appHTTP.NewRouter(jwtSvc, authHandler, attendanceHandler, adminHandler)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
