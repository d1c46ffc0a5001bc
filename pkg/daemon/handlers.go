package daemon

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/sunxi-power/axp20x/pkg/battery"
	"github.com/sunxi-power/axp20x/pkg/powersupply"
	"github.com/sunxi-power/axp20x/pkg/version"
)

func getConfig(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, conf.LogrusFields())
}

func getVersion(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, version.Version)
}

func getSupplies(c *gin.Context) {
	names := make([]string, 0, len(supplies))
	for name := range supplies {
		names = append(names, name)
	}
	sort.Strings(names)
	c.IndentedJSON(http.StatusOK, names)
}

// propertyValue renders enumerated properties as their sysfs-style
// names, everything else as the raw integer.
func propertyValue(prop powersupply.Property, val int) any {
	switch prop {
	case powersupply.PropStatus:
		return powersupply.Status(val).String()
	case powersupply.PropHealth:
		return powersupply.Health(val).String()
	case powersupply.PropTechnology:
		return powersupply.Technology(val).String()
	}
	return val
}

func getSupplyProperties(c *gin.Context) {
	supply, ok := supplies[c.Param("name")]
	if !ok {
		c.IndentedJSON(http.StatusNotFound, "no such supply")
		return
	}

	props := map[string]any{}
	for _, prop := range supply.Properties() {
		val, err := supply.GetProperty(prop)
		if err != nil {
			logrus.Warnf("failed to read %s/%s: %v", supply.Name(), prop, err)
			continue
		}
		props[prop.String()] = propertyValue(prop, val)
	}
	c.IndentedJSON(http.StatusOK, props)
}

func getSupplyProperty(c *gin.Context) {
	supply, ok := supplies[c.Param("name")]
	if !ok {
		c.IndentedJSON(http.StatusNotFound, "no such supply")
		return
	}
	prop, ok := powersupply.PropertyByName(c.Param("prop"))
	if !ok {
		err := fmt.Errorf("unknown property %q", c.Param("prop"))
		c.IndentedJSON(http.StatusBadRequest, err.Error())
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}

	val, err := supply.GetProperty(prop)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, powersupply.ErrUnsupported) {
			status = http.StatusBadRequest
		}
		c.IndentedJSON(status, err.Error())
		_ = c.AbortWithError(status, err)
		return
	}
	c.IndentedJSON(http.StatusOK, val)
}

// parsePropertyValue accepts either the raw integer or, for status, the
// enumerated name ("charging", "not-charging").
func parsePropertyValue(prop powersupply.Property, raw any) (int, error) {
	switch v := raw.(type) {
	case float64:
		return int(v), nil
	case string:
		if prop != powersupply.PropStatus {
			return 0, fmt.Errorf("property %s takes an integer", prop)
		}
		for _, s := range []powersupply.Status{
			powersupply.StatusCharging,
			powersupply.StatusDischarging,
			powersupply.StatusNotCharging,
			powersupply.StatusFull,
		} {
			if s.String() == v {
				return int(s), nil
			}
		}
		return 0, fmt.Errorf("unknown status %q", v)
	}
	return 0, fmt.Errorf("unsupported value type %T", raw)
}

func setSupplyProperty(c *gin.Context) {
	supply, ok := supplies[c.Param("name")]
	if !ok {
		c.IndentedJSON(http.StatusNotFound, "no such supply")
		return
	}
	prop, ok := powersupply.PropertyByName(c.Param("prop"))
	if !ok || !supply.PropertyIsWriteable(prop) {
		err := fmt.Errorf("property %q is not writeable", c.Param("prop"))
		c.IndentedJSON(http.StatusBadRequest, err.Error())
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}

	var raw any
	if err := c.BindJSON(&raw); err != nil {
		c.IndentedJSON(http.StatusBadRequest, err.Error())
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}
	val, err := parsePropertyValue(prop, raw)
	if err != nil {
		c.IndentedJSON(http.StatusBadRequest, err.Error())
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}

	if err := supply.SetProperty(prop, val); err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, powersupply.ErrUnsupported):
			status = http.StatusBadRequest
		case errors.Is(err, powersupply.ErrBusy):
			status = http.StatusServiceUnavailable
		}
		c.IndentedJSON(status, err.Error())
		_ = c.AbortWithError(status, err)
		return
	}

	// The user's charge ceiling survives restarts.
	if supply.Name() == battery.SupplyName && prop == powersupply.PropCurrentMax {
		conf.SetChargeCurrentMax(val)
		if err := conf.Save(); err != nil {
			logrus.Errorf("saveConfig failed: %v", err)
		}
	}

	logrus.Infof("set %s/%s to %d", supply.Name(), prop, val)
	c.IndentedJSON(http.StatusOK, "ok")
}

// getNextEvent long-polls for the next change notification, answering
// with the name of the supply whose properties changed.
func getNextEvent(c *gin.Context) {
	ch := hub.Subscribe()
	defer hub.Unsubscribe(ch)

	select {
	case name := <-ch:
		c.IndentedJSON(http.StatusOK, name)
	case <-c.Request.Context().Done():
		c.Status(http.StatusNoContent)
	case <-time.After(30 * time.Second):
		c.Status(http.StatusNoContent)
	}
}
