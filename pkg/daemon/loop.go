package daemon

import (
	"time"

	"github.com/sirupsen/logrus"
)

// The PMIC's IRQ pin is not wired to anything this daemon can wait on,
// so pending interrupt status is polled. The status bits latch until
// acknowledged, nothing is lost between passes.
var (
	irqStop chan struct{}
	irqDone chan struct{}
)

func startIRQLoop(interval time.Duration) {
	irqStop = make(chan struct{})
	irqDone = make(chan struct{})

	go func() {
		defer close(irqDone)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		logrus.Debugln("interrupt service loop starts")
		for {
			select {
			case <-ticker.C:
				if batt != nil {
					batt.ServiceIRQ()
				}
				if ac != nil {
					ac.ServiceIRQ()
				}
			case <-irqStop:
				return
			}
		}
	}()
}

func stopIRQLoop() {
	if irqStop == nil {
		return
	}
	close(irqStop)
	<-irqDone
	irqStop = nil
	irqDone = nil
}
