package services

import "sync"

// InFlightRegistry tracks running relints. Each IP runs at most one job and
// each tool is targeted by at most one job.
type InFlightRegistry struct {
	mu     sync.Mutex
	byIP   map[string]string
	byTool map[string]string
}

func NewInFlightRegistry() *InFlightRegistry {
	return &InFlightRegistry{
		byIP:   make(map[string]string),
		byTool: make(map[string]string),
	}
}

// TryAcquire records that ip is relinting tool. It returns false when ip
// already has a job or another job targets tool.
func (r *InFlightRegistry) TryAcquire(ip, tool string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, busy := r.byIP[ip]; busy {
		return false
	}
	if _, busy := r.byTool[tool]; busy {
		return false
	}
	r.byIP[ip] = tool
	r.byTool[tool] = ip
	return true
}

// Release drops the entry of ip. Unknown IPs are ignored.
func (r *InFlightRegistry) Release(ip string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tool, ok := r.byIP[ip]
	if !ok {
		return
	}
	delete(r.byIP, ip)
	if r.byTool[tool] == ip {
		delete(r.byTool, tool)
	}
}

// Len returns the number of running jobs.
func (r *InFlightRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byIP)
}
