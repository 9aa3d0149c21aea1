package boot

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"rifa/src/common"
	"rifa/src/config"
	"rifa/src/db"
	"rifa/src/lib"
	"rifa/src/models"

	"gorm.io/gorm"
)

const ReportCacheKey = "report:summary"

func InitDb() *gorm.DB {
	db := db.GetDb()

	err := db.AutoMigrate(
		&models.RaffleTicket{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	return db
}

// InitInventory performs the boot-time load so the first request never waits
// on a cold projection. A degraded load is logged and tolerated.
func InitInventory(inv *common.Inventory) {
	if _, err := inv.Load(context.Background()); err != nil {
		log.Printf("Initial inventory load degraded: %s\n", err.Error())
	}
}

// InitScheduler queues the recurring jobs: a periodic re-load that reconciles
// the projection with the store (and re-runs backfill after outages), and a
// report summary refresh into the redis cache.
func InitScheduler(inv *common.Inventory) {
	id, err := lib.CreateCronJob(func() {
		if _, err := inv.Load(context.Background()); err != nil {
			log.Printf("Scheduled inventory reload degraded: %s\n", err.Error())
		}
	}, 5*time.Minute)
	if err != nil {
		log.Printf("Error queuing job: %s\n", err.Error())
		return
	}
	log.Printf("Job ID: %s\n", *id)

	id, err = lib.CreateCronJob(RefreshReportCache, time.Minute, inv)
	if err != nil {
		log.Printf("Error queuing job: %s\n", err.Error())
		return
	}
	log.Printf("Job ID: %s\n", *id)

	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return
	}
	jobsWaitingInQueue := len(sched.Jobs())
	log.Println("Jobs in queue:", jobsWaitingInQueue)
	sched.Start()
}

func StopScheduler() {
	lib.StopScheduler()
}

func RefreshReportCache(inv *common.Inventory) {
	summary := common.Summarize(inv.Snapshot(), config.TicketPrice())
	b, err := json.Marshal(&summary)
	if err != nil {
		log.Printf("Error encoding report summary: %s\n", err.Error())
		return
	}
	rd := lib.GetRedisClient()
	if rd == nil {
		return
	}
	if err := rd.Set(context.Background(), ReportCacheKey, b, 2*time.Minute).Err(); err != nil {
		log.Printf("[redis] Error updating report cache: %s\n", err.Error())
	}
}
