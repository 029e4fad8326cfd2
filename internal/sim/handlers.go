package sim

import (
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/udisondev/hearth/internal/model"
	"github.com/udisondev/hearth/internal/snapshot"
)

// Spawn defaults.
const (
	defaultMoney      = 100.0
	familyAffinity    = 50.0
	partnerAffinity   = 70.0
	scheduleJitter    = 20.0 // minutes either side
	spawnScatterCells = 3
	caregiverName     = "Caregiver"
)

func (s *Simulation) spawnAgent(cfg AgentConfig) *model.Agent {
	w := s.world
	a := model.NewAgent(0, cfg.Name)
	if a.Name == "" {
		a.Name = fmt.Sprintf("Resident %d", w.AgentCount()+1)
	}
	a.Role = model.ParseRole(cfg.Role)
	switch {
	case cfg.Age > 0:
		a.Age = cfg.Age
	case a.Role == model.RoleChild:
		a.Age = 9
	case a.Role == model.RoleElder:
		a.Age = 72
	}
	if a.Role == model.RoleHelper {
		a.NoDecay = true
	}

	if cfg.Traits != nil {
		a.Traits = model.Traits{
			Frugality:   cfg.Traits.Frugality,
			Snobbery:    cfg.Traits.Snobbery,
			Sociability: cfg.Traits.Sociability,
			Playfulness: cfg.Traits.Playfulness,
			Diligence:   cfg.Traits.Diligence,
		}
		for name, v := range cfg.Traits.Affinity {
			if u, ok := model.ParseUtility(name); ok {
				if a.Traits.Affinity == nil {
					a.Traits.Affinity = make(map[model.Utility]float64)
				}
				a.Traits.Affinity[u] = v
			}
		}
	} else {
		a.Traits = model.Traits{
			Frugality:   s.rnd.Float64(),
			Snobbery:    s.rnd.Float64(),
			Sociability: s.rnd.Float64(),
			Playfulness: s.rnd.Float64(),
			Diligence:   s.rnd.Float64(),
		}
	}
	a.ScheduleOffset = (s.rnd.Float64()*2 - 1) * scheduleJitter

	a.Money = defaultMoney
	if cfg.Money != nil {
		a.Money = *cfg.Money
	}
	if cfg.WorkplaceID != 0 && a.Role != model.RoleChild {
		a.Job = &model.Job{WorkplaceID: cfg.WorkplaceID, Title: cfg.JobTitle}
	}
	a.InSchool = a.Role == model.RoleChild && w.Schedule().SchoolAge(a.Age)

	if cfg.HomeID != 0 {
		if _, ok := w.HomeRoom(cfg.HomeID); ok {
			a.HomeID = cfg.HomeID
		}
	}
	if cfg.Pos != nil {
		a.Pos = w.Walkable(*cfg.Pos)
	} else {
		a.Pos = s.spawnPoint(a.HomeID)
	}

	w.AddAgent(a)
	s.mirror(a)
	w.Logf("%s arrived", a.Name)
	slog.Info("agent spawned", "agent", a.ID, "name", a.Name, "role", a.Role, "home", a.HomeID)
	return a
}

// spawnPoint picks a walkable point near the home, or near the map center.
func (s *Simulation) spawnPoint(home model.HomeID) model.Point {
	w := s.world
	l := w.Layout()
	center := model.Pt(l.Width/2, l.Height/2)
	if r, ok := w.HomeRoom(home); ok {
		center = r.Bounds.Center()
	}
	if p, ok := w.Grid().RandomWalkableNear(center, spawnScatterCells, s.rnd); ok {
		return p
	}
	return w.Walkable(center)
}

func (s *Simulation) spawnFamily(home model.HomeID, members []AgentConfig) {
	if len(members) == 0 {
		return
	}
	w := s.world
	if home == 0 {
		home, _ = s.vacantHome()
	}

	var family uint32
	for _, a := range w.Agents() {
		family = max(family, a.FamilyID)
	}
	family++

	spawned := make([]*model.Agent, 0, len(members))
	for _, cfg := range members {
		cfg.HomeID = home
		a := s.spawnAgent(cfg)
		a.FamilyID = family
		spawned = append(spawned, a)
	}

	for i, a := range spawned {
		for j, b := range spawned {
			if i != j {
				r := a.Relationship(b.ID)
				r.Kind = model.RelationFamily
				r.Affinity = familyAffinity
			}
		}
	}
	var adults []*model.Agent
	for _, a := range spawned {
		if a.IsAdult() {
			adults = append(adults, a)
		}
	}
	if len(adults) >= 2 {
		x, y := adults[0], adults[1]
		x.Partner, y.Partner = y.ID, x.ID
		for _, r := range []*model.Relationship{x.Relationship(y.ID), y.Relationship(x.ID)} {
			r.Kind = model.RelationPartner
			r.Affinity = partnerAffinity
		}
	}
	w.Logf("a family of %d moved in", len(spawned))
}

// vacantHome returns the lowest home id nobody lives in.
func (s *Simulation) vacantHome() (model.HomeID, bool) {
	taken := make(map[model.HomeID]bool)
	for _, a := range s.world.Agents() {
		taken[a.HomeID] = true
	}
	for _, h := range s.world.HomeIDs() {
		if !taken[h] {
			return h, true
		}
	}
	return 0, false
}

func (s *Simulation) selectAgent(id model.AgentID) {
	if id == 0 {
		s.focused = 0
		return
	}
	if _, ok := s.world.Agent(id); !ok {
		slog.Debug("select ignored: unknown agent", "agent", id)
		return
	}
	s.focused = id
}

func (s *Simulation) setSpeed(v float64) {
	if math.IsNaN(v) {
		return
	}
	s.speed = min(max(v, 0), MaxSpeed)
	slog.Info("simulation speed changed", "speed", s.speed)
}

func (s *Simulation) removeAgent(id model.AgentID) {
	a, ok := s.world.RemoveAgent(id)
	if !ok {
		slog.Debug("remove ignored: unknown agent", "agent", id)
		return
	}
	s.unmirror(a)
	if s.focused == id {
		s.focused = 0
	}
	s.world.Logf("%s left", a.Name)
}

func (s *Simulation) assignHome(id model.AgentID, home model.HomeID) {
	a, ok := s.world.Agent(id)
	if !ok {
		return
	}
	if home == 0 {
		if home, ok = s.vacantHome(); !ok {
			slog.Info("no vacant home", "agent", id)
			return
		}
	} else if _, ok := s.world.HomeRoom(home); !ok {
		slog.Debug("assign home ignored: unknown home", "home", home)
		return
	}
	a.HomeID = home
	s.world.Logf("%s moved into home %d", a.Name, home)
}

func (s *Simulation) requestCaregiver(home model.HomeID, task model.CaregiverTask, target model.AgentID) {
	w := s.world
	ward, ok := w.Agent(target)
	if !ok || task == model.TaskNone {
		return
	}
	homeRoom, hasHome := w.HomeRoom(home)

	var dest model.Point
	switch task {
	case model.TaskEscortSchool:
		school, ok := w.SchoolRoom()
		if !ok {
			slog.Info("caregiver request ignored: no school", "ward", target)
			return
		}
		dest = w.Walkable(school.Bounds.Center())
	case model.TaskEscortHome:
		if !hasHome {
			return
		}
		dest = w.Walkable(homeRoom.Bounds.Center())
	case model.TaskBabysit:
		dest = ward.Pos
	}

	caregiver := s.findCaregiver(home)
	if caregiver == nil {
		caregiver = s.spawnAgent(AgentConfig{Name: caregiverName, Role: model.RoleHelper.String(), HomeID: home})
	}
	s.brain.AssignEscort(caregiver, ward, task, dest, w)
	w.Logf("%s was asked to %s for %s", caregiver.Name, task, ward.Name)
}

// findCaregiver returns a helper of the home that is not already escorting.
func (s *Simulation) findCaregiver(home model.HomeID) *model.Agent {
	for _, a := range s.world.Household(home) {
		if a.Role == model.RoleHelper && a.Intent != model.IntentEscort {
			return a
		}
	}
	return nil
}

func (s *Simulation) applyMapEdit(m snapshot.Map) {
	if m.World.Width <= 0 || m.World.Height <= 0 {
		slog.Warn("map edit ignored: empty layout")
		return
	}
	s.world.ReplaceMap(m.ModelLayout(), m.ModelRooms(), m.ModelInteractables())
	s.world.Logf("the map was edited")
	s.emit(EventMapInitialized{Map: snapshot.CaptureMap(s.world)})
}

func (s *Simulation) save(slot string) {
	sv := snapshot.Capture(s.world)
	slog.Info("save captured", "slot", slot, "snapshot_id", sv.SnapshotID, "agents", len(sv.Agents))
	s.emit(EventSaveReady{Slot: slot, Save: sv})
}

// load swaps in the saved world only when it restores cleanly.
func (s *Simulation) load(sv *snapshot.Save) {
	if sv == nil {
		s.emit(EventLoadFailed{Err: fmt.Errorf("%w: empty load request", snapshot.ErrInvalidSnapshot)})
		return
	}
	next, err := sv.Restore(snapshot.RestoreOptions{
		Tables:        s.world.Schedule().Tables(),
		MaxExpansions: s.opts.MaxExpansions,
	})
	if err != nil {
		slog.Warn("load refused", "snapshot_id", sv.SnapshotID, "error", err)
		s.emit(EventLoadFailed{Err: err})
		return
	}

	for _, a := range slices.Clone(s.world.Agents()) {
		s.unmirror(a)
	}
	s.world = next
	s.focused = 0
	for _, a := range next.Agents() {
		s.mirror(a)
	}
	next.Logf("save %s loaded", sv.SnapshotID)
	slog.Info("save loaded", "snapshot_id", sv.SnapshotID, "agents", next.AgentCount())

	s.emit(EventLoaded{SnapshotID: sv.SnapshotID, Agents: next.AgentCount()})
	s.emit(EventMapInitialized{Map: snapshot.CaptureMap(next)})
}
