package metrics

import "github.com/san-kum/cellviz/internal/sdr"

// Overlap is the mean overlap of each SDR with the one before it. The
// first observation only primes it.
type Overlap struct {
	name    string
	prev    sdr.SDR
	sum     float64
	samples int
}

func NewOverlap() *Overlap {
	return &Overlap{
		name: "overlap",
	}
}

func (o *Overlap) Name() string { return o.name }

func (o *Overlap) Observe(s sdr.SDR) {
	if o.prev != nil && len(o.prev) == len(s) {
		o.sum += float64(sdr.Overlap(o.prev, s))
		o.samples++
	}
	o.prev = append(o.prev[:0], s...)
}

func (o *Overlap) Value() float64 {
	if o.samples == 0 {
		return 0
	}
	return o.sum / float64(o.samples)
}

func (o *Overlap) Reset() {
	o.prev = nil
	o.sum = 0
	o.samples = 0
}

// Churn is the mean number of bits that changed between consecutive SDRs.
type Churn struct {
	name    string
	prev    sdr.SDR
	sum     float64
	samples int
}

func NewChurn() *Churn {
	return &Churn{
		name: "churn",
	}
}

func (c *Churn) Name() string {
	return c.name
}

func (c *Churn) Observe(s sdr.SDR) {
	if c.prev != nil && len(c.prev) == len(s) {
		for i := range s {
			if s[i] != c.prev[i] {
				c.sum++
			}
		}
		c.samples++
	}
	c.prev = append(c.prev[:0], s...)
}

func (c *Churn) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *Churn) Reset() {
	c.prev = nil
	c.sum = 0
	c.samples = 0
}
