// Package daemon wires the AXP20x power-supply drivers to real hardware
// and serves their properties over a unix-socket HTTP API.
package daemon

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/sunxi-power/axp20x/pkg/acpower"
	"github.com/sunxi-power/axp20x/pkg/battery"
	"github.com/sunxi-power/axp20x/pkg/config"
	"github.com/sunxi-power/axp20x/pkg/powersupply"
	"github.com/sunxi-power/axp20x/pkg/regmap"
	"github.com/sunxi-power/axp20x/pkg/rtcbatt"
)

var (
	conf     config.Config
	hub      *powersupply.Hub
	supplies map[string]powersupply.Supply
	batt     *battery.Power
	ac       *acpower.Power
)

func setupRoutes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(ginLogger(logrus.StandardLogger()))
	router.GET("/config", getConfig)
	router.GET("/version", getVersion)
	router.GET("/supplies", getSupplies)
	router.GET("/supplies/:name", getSupplyProperties)
	router.GET("/supplies/:name/:prop", getSupplyProperty)
	router.PUT("/supplies/:name/:prop", setSupplyProperty)
	router.GET("/events", getNextEvent)

	return router
}

// attachSupplies probes and publishes every supply the board has. A
// missing main battery is tolerated; everything else is fatal.
func attachSupplies(rm regmap.Regmap) error {
	hub = powersupply.NewHub()
	supplies = map[string]powersupply.Supply{}
	batt = nil
	ac = nil

	b, err := battery.Attach(rm, conf.BatteryParams(), hub)
	switch {
	case errors.Is(err, powersupply.ErrNoDevice):
		logrus.Warn("no battery present or configured, not publishing the battery supply")
	case err != nil:
		return err
	default:
		batt = b
		supplies[b.Name()] = b
		b.BindLines(conf.IRQLines())
		b.SetPollInterval(conf.PollInterval())
		if ua := conf.ChargeCurrentMax(); ua != 0 {
			if err := b.SetProperty(powersupply.PropCurrentMax, ua); err != nil {
				logrus.Errorf("failed to apply persisted charge current ceiling: %v", err)
			}
		}
	}

	if params := conf.RTCParams(); params != nil {
		r, err := rtcbatt.Attach(rm, *params, hub)
		if err != nil {
			return err
		}
		supplies[r.Name()] = r
	}

	a, err := acpower.Attach(rm, hub)
	if err != nil {
		return err
	}
	if batt != nil {
		a.Reconfigure = batt.Reconfigure
	}
	a.BindLines(conf.IRQLines())
	ac = a
	supplies[a.Name()] = a

	return nil
}

// Run starts the daemon and blocks until SIGINT or SIGTERM.
func Run(configPath string, unixSocketPath string, allowNonRoot bool) error {
	router := setupRoutes()

	var err error
	conf, err = config.NewFile(configPath)
	if err != nil {
		logrus.Fatalf("failed to parse config during startup: %v", err)
	}
	logrus.WithFields(conf.LogrusFields()).Infof("config loaded")

	// Receive SIGHUP to reload config
	go func() {
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGHUP)
		for range sigc {
			err := conf.Load()
			if err != nil {
				logrus.Errorf("failed to reload config: %v", err)
				continue
			}
			logrus.Infof("config reloaded")
		}
	}()

	if _, err := host.Init(); err != nil {
		logrus.Fatalf("failed to initialize host drivers: %v", err)
	}
	bus, err := i2creg.Open(conf.Bus())
	if err != nil {
		logrus.Fatalf("failed to open I2C bus %q: %v", conf.Bus(), err)
	}
	rm := regmap.NewI2C(bus, conf.Address())

	if err := attachSupplies(rm); err != nil {
		logrus.Fatalf("failed to attach power supplies: %v", err)
	}

	srv := &http.Server{
		Handler: router,
	}

	// Create the socket to listen on:
	l, err := net.Listen("unix", unixSocketPath)
	if err != nil {
		logrus.Fatal(err)
	}

	if conf.AllowNonRootAccess() || allowNonRoot {
		logrus.Infof("non-root access is allowed, changing permissions of %s to 0777", unixSocketPath)
		err = os.Chmod(unixSocketPath, 0777)
		if err != nil {
			logrus.Fatal(err)
		}
	}

	// Serve HTTP on unix socket
	go func() {
		logrus.Infof("http server listening on %s", l.Addr().String())
		if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatal(err)
		}
	}()

	if batt != nil {
		batt.Start()
	}
	startIRQLoop(conf.IRQPollInterval())

	// Handle common process-killing signals, so we can gracefully shut down:
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	// Wait for a SIGINT or SIGTERM:
	sig := <-sigc
	logrus.Infof("caught signal \"%s\": shutting down.", sig)

	logrus.Info("shutting down http server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	err = srv.Shutdown(ctx)
	if err != nil {
		logrus.Errorf("failed to shutdown http server: %v", err)
	}
	cancel()

	logrus.Info("stopping interrupt servicing")
	stopIRQLoop()

	if batt != nil {
		logrus.Info("stopping battery monitor")
		batt.Stop()
	}

	logrus.Info("closing I2C bus")
	if err := bus.Close(); err != nil {
		logrus.Errorf("failed to close I2C bus: %v", err)
	}

	logrus.Info("exiting")
	return nil
}
