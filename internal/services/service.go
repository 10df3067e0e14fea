package services

import (
	"staykeeper/config"
	"staykeeper/internal/database"
	"staykeeper/internal/events"
	"staykeeper/internal/repositories"
)

type Service struct {
	Transaction  *TransactionService
	Scheduler    *SchedulerService
	UpgradeRules *UpgradeRulesService
	Heat         *HeatService
	Stay         *StayService
	Checkout     *CheckoutService
	Triage       *TriageService
}

func New(db database.DB, config config.Config, eventBus *events.EventBus) (Service, error) {
	transactionService := NewTransactionService(db)
	repos := repositories.New(db)

	schedulerService := NewSchedulerService()
	upgradeRulesService := NewUpgradeRulesService(RuleSetFromConfig(config))
	heatService := NewHeatService(EscalationThresholdsFromConfig(config))
	stayService := NewStayService(repos)
	checkoutService := NewCheckoutService(repos, upgradeRulesService, stayService, transactionService)
	triageService := NewTriageService(repos, heatService, eventBus, db)

	return Service{
		Transaction:  transactionService,
		Scheduler:    schedulerService,
		UpgradeRules: upgradeRulesService,
		Heat:         heatService,
		Stay:         stayService,
		Checkout:     checkoutService,
		Triage:       triageService,
	}, nil
}
