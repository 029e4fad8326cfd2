package model

import "fmt"

// NeedKind enumerates the physiological/psychological needs every agent carries.
type NeedKind uint8

const (
	NeedHunger NeedKind = iota
	NeedEnergy
	NeedHygiene
	NeedBladder
	NeedSocial
	NeedFun
	NeedComfort

	NeedCount = 7
)

// Need bounds.
const (
	NeedMin = 0.0
	NeedMax = 100.0
)

var needNames = [NeedCount]string{
	"hunger", "energy", "hygiene", "bladder", "social", "fun", "comfort",
}

// String returns the lower-case need name (stable, used in logs and saves).
func (n NeedKind) String() string {
	if int(n) < NeedCount {
		return needNames[n]
	}
	return fmt.Sprintf("need(%d)", uint8(n))
}

// ParseNeed resolves a need name produced by String.
func ParseNeed(s string) (NeedKind, bool) {
	for i, name := range needNames {
		if name == s {
			return NeedKind(i), true
		}
	}
	return 0, false
}

// AllNeeds lists every need kind in declaration order.
func AllNeeds() [NeedCount]NeedKind {
	var out [NeedCount]NeedKind
	for i := range NeedCount {
		out[i] = NeedKind(i)
	}
	return out
}

// Needs is the needs vector. 100 is fully satisfied, 0 is fully depleted.
// Every mutation goes through Set/Add so the [0,100] invariant holds.
type Needs [NeedCount]float64

// FullNeeds returns a vector with every need at NeedMax.
func FullNeeds() Needs {
	var n Needs
	for i := range n {
		n[i] = NeedMax
	}
	return n
}

// Get returns the level of need k.
func (n *Needs) Get(k NeedKind) float64 {
	return n[k]
}

// Set stores v clamped to [0,100].
func (n *Needs) Set(k NeedKind, v float64) {
	n[k] = ClampNeed(v)
}

// Add adds delta (possibly negative) and clamps.
func (n *Needs) Add(k NeedKind, delta float64) {
	n[k] = ClampNeed(n[k] + delta)
}

// Average returns the mean of all needs.
func (n *Needs) Average() float64 {
	sum := 0.0
	for _, v := range n {
		sum += v
	}
	return sum / NeedCount
}

// Lowest returns the most depleted need and its level.
// Ties resolve to the earlier need kind.
func (n *Needs) Lowest() (NeedKind, float64) {
	low := NeedKind(0)
	for i := 1; i < NeedCount; i++ {
		if n[i] < n[low] {
			low = NeedKind(i)
		}
	}
	return low, n[low]
}

// ClampNeed clamps v to [NeedMin, NeedMax]. NaN collapses to NeedMin.
func ClampNeed(v float64) float64 {
	if v != v || v < NeedMin {
		return NeedMin
	}
	if v > NeedMax {
		return NeedMax
	}
	return v
}

// Metabolism holds per-need decay multipliers (1.0 = baseline).
type Metabolism [NeedCount]float64

// DefaultMetabolism returns a neutral multiplier vector.
func DefaultMetabolism() Metabolism {
	var m Metabolism
	for i := range m {
		m[i] = 1
	}
	return m
}

// Buff is a timed mood modifier. Re-applying an active buff refreshes Remaining.
type Buff struct {
	ID        string  `json:"id"`
	Remaining float64 `json:"remaining"` // sim minutes
	Polarity  int     `json:"polarity"`  // +1 or -1
	Magnitude float64 `json:"magnitude"`
}

// Delta returns the signed mood contribution of the buff.
func (b Buff) Delta() float64 {
	if b.Polarity < 0 {
		return -b.Magnitude
	}
	return b.Magnitude
}
