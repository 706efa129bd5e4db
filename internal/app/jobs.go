package app

import (
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"
	"go.uber.org/zap"

	"github.com/kopihub/kopihub/internal/domain"
	"github.com/kopihub/kopihub/internal/order"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJob() {
	loc, _ := time.LoadLocation(a.appConfig.System.Location)
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	var err error
	_, err = a.sched.AddFunc("@every 30s", func() {
		go a.SchedSystemMonitorTask()
		go a.SchedProcessMonitorTask()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	_, err = a.sched.AddFunc("@every 10m", func() {
		a.SchedCancelStaleOrdersTask()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	_, err = a.sched.AddFunc("@daily", func() {
		a.gormDB.
			Where("opt_time < ? ", time.Now().
				Add(-time.Hour*24*365)).Delete(domain.SysOprLog{})
	})

	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	a.sched.Start()
}

// SchedSystemMonitorTask system monitor
func (a *Application) SchedSystemMonitorTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	_cpuuse, err := cpu.Percent(0, false)
	if err != nil || len(_cpuuse) == 0 {
		return
	}

	_meminfo, err := mem.VirtualMemory()
	if err != nil {
		return
	}

	zap.L().Debug("system monitor",
		zap.Float64("cpu_percent", _cpuuse[0]),
		zap.Uint64("mem_used_mb", _meminfo.Used/1024/1024))
}

// SchedProcessMonitorTask app process monitor
func (a *Application) SchedProcessMonitorTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	p, err := process.NewProcess(int32(os.Getpid())) //nolint:gosec // G115: PID is always within int32 range
	if err != nil {
		return
	}

	cpuuse, err := p.CPUPercent()
	if err != nil {
		return
	}

	meminfo, err := p.MemoryInfo()
	if err != nil {
		return
	}

	zap.L().Debug("process monitor",
		zap.Float64("cpu_percent", cpuuse),
		zap.Uint64("rss_mb", meminfo.RSS/1024/1024))
}

// SchedCancelStaleOrdersTask cancels gateway orders that stayed unpaid past
// the configured window. Cash orders are settled at the counter and are
// never expired here.
func (a *Application) SchedCancelStaleOrdersTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	staleHours := a.GetSettingsInt64Value("checkout", "stale_order_hours")
	if staleHours <= 0 {
		staleHours = 24
	}
	cutoff := time.Now().Add(-time.Duration(staleHours) * time.Hour)

	result := a.gormDB.Model(&domain.Transaction{}).
		Where("status_id = ? and payment_type <> ? and created_at < ?",
			int64(order.StatusPending), order.PaymentMethodCash, cutoff).
		Updates(map[string]interface{}{
			"status_id":  int64(order.StatusCanceled),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		zap.L().Error("stale order cleanup failed", zap.Error(result.Error))
		return
	}
	if result.RowsAffected > 0 {
		zap.L().Info("canceled stale unpaid orders", zap.Int64("count", result.RowsAffected))
	}
}
