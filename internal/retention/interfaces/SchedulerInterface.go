package interfaces

type SchedulerInterface interface {
	Init()
	Stop()
	SweepNow() error
}
