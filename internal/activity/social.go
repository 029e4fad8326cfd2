package activity

import (
	"github.com/udisondev/hearth/internal/model"
	"github.com/udisondev/hearth/internal/world"
)

// Relationship thresholds on the -100..100 affinity scale.
const (
	friendAffinity  = 40.0
	partnerAffinity = 80.0
	affinityPerMin  = 0.6
	// listenerSocial is the social gain per minute of the agent being talked to.
	listenerSocial = 1.5
)

// converse grows mutual affinity, feeds the listener's social need and
// promotes relationships (acquaintance → friend → partner).
func converse(a, b *model.Agent, w *world.World, dt float64) {
	ra := a.Relationship(b.ID)
	rb := b.Relationship(a.ID)
	ra.Affinity = min(100, ra.Affinity+affinityPerMin*dt)
	rb.Affinity = min(100, rb.Affinity+affinityPerMin*dt)
	b.Needs.Add(model.NeedSocial, listenerSocial*dt)
	a.LonelyMinutes = 0
	b.LonelyMinutes = 0

	promote(ra, rb)

	if canPair(a, b, ra, rb, w) {
		a.Partner, b.Partner = b.ID, a.ID
		ra.Kind, rb.Kind = model.RelationPartner, model.RelationPartner
		a.Remember(w.Clock(), "fell for "+b.Name)
		b.Remember(w.Clock(), "fell for "+a.Name)
		w.Logf("%s and %s are now a couple", a.Name, b.Name)
	}
}

func promote(rels ...*model.Relationship) {
	for _, r := range rels {
		if r.Kind == model.RelationAcquaintance && r.Affinity >= friendAffinity {
			r.Kind = model.RelationFriend
		}
	}
}

func canPair(a, b *model.Agent, ra, rb *model.Relationship, w *world.World) bool {
	if a.Partner != 0 || b.Partner != 0 {
		return false
	}
	if !w.Schedule().IsAdult(a) || !w.Schedule().IsAdult(b) {
		return false
	}
	if ra.Kind == model.RelationFamily || rb.Kind == model.RelationFamily {
		return false
	}
	return ra.Affinity >= partnerAffinity && rb.Affinity >= partnerAffinity
}
