package primitive

type Semaphore struct {
	tickets chan struct{}
}

func NewSemaphore(ticketsCount int) *Semaphore {
	tickets := make(chan struct{}, ticketsCount)
	for i := 0; i < ticketsCount; i++ {
		tickets <- struct{}{}
	}
	return &Semaphore{
		tickets: tickets,
	}
}

func (s *Semaphore) Acquire() {
	<-s.tickets
}

// TryAcquire takes a ticket only if one is free right now.
func (s *Semaphore) TryAcquire() bool {
	select {
	case <-s.tickets:
		return true
	default:
		return false
	}
}

func (s *Semaphore) Release() {
	s.tickets <- struct{}{}
}

func (s *Semaphore) Available() int {
	return len(s.tickets)
}
