package entity

import (
	"github.com/tsinghua-fib-lab/intersection-oss/clock"
	"github.com/tsinghua-fib-lab/intersection-oss/events"
	"github.com/tsinghua-fib-lab/intersection-oss/utils/config"
)

type ITaskContext interface {
	Clock() *clock.Clock
	ApproachManager() IApproachManager
	Detector() IDetector
	Bus() *events.Bus
	RuntimeConfig() *config.RuntimeConfig
}
