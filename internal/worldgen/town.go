// Package worldgen builds the default town used when no map file is
// configured. Lots are laid out on a street grid and zoned with layered
// simplex noise, so a seed always yields the same town.
package worldgen

import (
	"cmp"
	"fmt"
	"math/rand/v2"
	"slices"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/udisondev/hearth/internal/model"
	"github.com/udisondev/hearth/internal/policy"
	"github.com/udisondev/hearth/internal/sim"
	"github.com/udisondev/hearth/internal/snapshot"
	"github.com/udisondev/hearth/internal/world"
)

// Config holds town generation parameters.
type Config struct {
	Width      float64 `yaml:"width"`
	Height     float64 `yaml:"height"`
	CellSize   float64 `yaml:"cell_size"`
	LotCells   int     `yaml:"lot_cells"`    // lot edge in cells
	StreetCell int     `yaml:"street_cells"` // street width in cells
	Homes      int     `yaml:"homes"`
	Workplaces int     `yaml:"workplaces"`
	Seed       int64   `yaml:"seed"`
}

// DefaultConfig returns a small town of eight homes.
func DefaultConfig() Config {
	return Config{
		Width:      1600,
		Height:     1200,
		CellSize:   20,
		LotCells:   12,
		StreetCell: 2,
		Homes:      8,
		Workplaces: 3,
		Seed:       1,
	}
}

// Zone is what a lot is built as.
type Zone uint8

const (
	ZonePark Zone = iota
	ZoneHome
	ZoneWork
	ZoneSchool
	ZoneCafe
	ZoneClinic
)

func (z Zone) String() string {
	switch z {
	case ZoneHome:
		return "home"
	case ZoneWork:
		return "work"
	case ZoneSchool:
		return "school"
	case ZoneCafe:
		return "cafe"
	case ZoneClinic:
		return "clinic"
	default:
		return "park"
	}
}

// Lot is one building plot.
type Lot struct {
	Bounds model.Rect
	Zone   Zone
	// density is the zoning noise sampled at the lot center.
	density float64
}

// Town is a generated map plus the ids the population needs.
type Town struct {
	Map        snapshot.Map
	Lots       []Lot
	Homes      []model.HomeID
	Workplaces []model.WorkplaceID
	Seed       int64
}

// Generate builds a town. It never fails: a map too small for a full town
// gets as many lots as fit, civic buildings first.
func Generate(cfg Config) *Town {
	def := DefaultConfig()
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = def.Width, def.Height
	}
	if cfg.CellSize <= 0 {
		cfg.CellSize = def.CellSize
	}
	if cfg.LotCells < 6 {
		cfg.LotCells = def.LotCells
	}
	if cfg.StreetCell < 1 {
		cfg.StreetCell = def.StreetCell
	}

	zoning := opensimplex.NewNormalized(cfg.Seed)
	decor := opensimplex.NewNormalized(cfg.Seed + 1)

	lots := layoutLots(cfg)
	for i := range lots {
		c := lots[i].Bounds.Center()
		lots[i].density = octaveNoise(zoning, c.X, c.Y, 3, 0.002, 0.5)
	}
	zone(lots, cfg)

	b := &builder{cfg: cfg, decor: decor}
	b.town.Seed = cfg.Seed
	b.town.Map.World = snapshot.WorldRecord{
		Width:    cfg.Width,
		Height:   cfg.Height,
		CellSize: cfg.CellSize,
	}
	for _, lot := range lots {
		b.build(lot)
	}
	b.town.Lots = lots
	return &b.town
}

// NewWorld builds an empty world on the town map.
func (t *Town) NewWorld(tables policy.Tables, maxExpansions int, startMinute float64) *world.World {
	return world.New(world.Options{
		Layout:        t.Map.ModelLayout(),
		Rooms:         t.Map.ModelRooms(),
		Interactables: t.Map.ModelInteractables(),
		Tables:        tables,
		MaxExpansions: maxExpansions,
		StartMinute:   startMinute,
	})
}

// layoutLots places lots row by row, separated by streets.
func layoutLots(cfg Config) []Lot {
	cs := cfg.CellSize
	lot := float64(cfg.LotCells) * cs
	street := float64(cfg.StreetCell) * cs

	var lots []Lot
	for y := street; y+lot <= cfg.Height-street; y += lot + street {
		for x := street; x+lot <= cfg.Width-street; x += lot + street {
			lots = append(lots, Lot{Bounds: model.Rect{X: x, Y: y, W: lot, H: lot}})
		}
	}
	return lots
}

// zone assigns civic buildings to the densest lots, then one home, then
// workplaces and the remaining homes. Leftover lots are parks.
func zone(lots []Lot, cfg Config) {
	order := make([]int, len(lots))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(lots[b].density, lots[a].density)
	})

	plan := []Zone{ZoneSchool, ZoneCafe, ZoneClinic}
	if cfg.Homes > 0 {
		plan = append(plan, ZoneHome)
	}
	for range max(cfg.Workplaces, 0) {
		plan = append(plan, ZoneWork)
	}
	for range max(cfg.Homes-1, 0) {
		plan = append(plan, ZoneHome)
	}
	// Homes take the quietest lots.
	next, last := 0, len(order)-1
	for _, z := range plan {
		if next > last {
			break
		}
		if z == ZoneHome {
			lots[order[last]].Zone = z
			last--
			continue
		}
		lots[order[next]].Zone = z
		next++
	}
}

// octaveNoise generates fractal noise by layering multiple frequencies.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for range octaves {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}

type builder struct {
	cfg   Config
	decor opensimplex.Noise
	town  Town

	roomID uint32
	itemID uint32
}

// build walls the lot (door in the middle of the south wall), adds its room
// and furnishes it. Furniture goes on a two-row band along the north wall so
// the door side always stays open.
func (b *builder) build(lot Lot) {
	r := lot.Bounds
	cs := b.cfg.CellSize
	b.roomID++
	room := snapshot.RoomRecord{ID: b.roomID, Bounds: r}

	if lot.Zone != ZonePark {
		half := r.W / 2
		b.town.Map.World.Walls = append(b.town.Map.World.Walls,
			model.Rect{X: r.X, Y: r.Y, W: r.W, H: cs},
			model.Rect{X: r.X, Y: r.Y, W: cs, H: r.H},
			model.Rect{X: r.X + r.W - cs, Y: r.Y, W: cs, H: r.H},
			model.Rect{X: r.X, Y: r.Y + r.H - cs, W: half - cs, H: cs},
			model.Rect{X: r.X + half + cs, Y: r.Y + r.H - cs, W: half - cs, H: cs},
		)
	}

	slots := b.slots(r)
	switch lot.Zone {
	case ZoneHome:
		home := model.HomeID(len(b.town.Homes) + 1)
		b.town.Homes = append(b.town.Homes, home)
		room.Kind = model.RoomHome.String()
		room.HomeID = uint32(home)
		room.Name = fmt.Sprintf("Home %d", home)
		for i, f := range homeFurniture {
			if i < len(slots) {
				f.HomeID = uint32(home)
				b.place(f, slots[i])
			}
		}
	case ZoneWork:
		wp := model.WorkplaceID(len(b.town.Workplaces) + 1)
		b.town.Workplaces = append(b.town.Workplaces, wp)
		room.Kind = model.RoomWork.String()
		room.WorkplaceID = uint32(wp)
		room.Name = fmt.Sprintf("Office %d", wp)
		for i := range min(4, len(slots)) {
			b.place(snapshot.InteractableRecord{
				Kind: "desk", Utility: model.UtilityWork.String(), Capacity: 1, WorkplaceID: uint32(wp),
			}, slots[i])
		}
		if len(slots) > 4 {
			b.place(snapshot.InteractableRecord{Kind: "toilet", Utility: model.UtilityToilet.String(), Capacity: 1}, slots[4])
		}
	case ZoneSchool:
		room.Kind = model.RoomSchool.String()
		room.Name = "School"
		for i := range min(6, len(slots)) {
			b.place(snapshot.InteractableRecord{
				Kind: "school_desk", Utility: model.UtilitySchool.String(), Capacity: 1,
			}, slots[i])
		}
		if len(slots) > 6 {
			b.place(snapshot.InteractableRecord{Kind: "toilet", Utility: model.UtilityToilet.String(), Capacity: 1}, slots[6])
		}
	case ZoneCafe:
		room.Kind = model.RoomPublic.String()
		room.Name = "Cafe"
		for i, f := range cafeFurniture {
			if i < len(slots) {
				b.place(f, slots[i])
			}
		}
	case ZoneClinic:
		room.Kind = model.RoomPublic.String()
		room.Name = "Clinic"
		for i := range min(2, len(slots)) {
			b.place(snapshot.InteractableRecord{
				Kind: "clinic_bed", Utility: model.UtilityMedical.String(), Capacity: 1, Cost: 20, PriceTier: 1,
			}, slots[i])
		}
	default:
		room.Kind = model.RoomPublic.String()
		room.Name = "Park"
		b.furnishPark(slots)
	}
	b.town.Map.Rooms = append(b.town.Map.Rooms, room)
}

var homeFurniture = []snapshot.InteractableRecord{
	{Kind: "fridge", Utility: "food", Capacity: 1},
	{Kind: "bed", Utility: "bed", Capacity: 1},
	{Kind: "bed", Utility: "bed", Capacity: 1},
	{Kind: "toilet", Utility: "toilet", Capacity: 1},
	{Kind: "shower", Utility: "shower", Capacity: 1},
	{Kind: "sofa", Utility: "seat", Capacity: 2},
	{Kind: "tv", Utility: "fun", Capacity: 3},
	{Kind: "child_bed", Utility: "bed", Capacity: 1},
}

var cafeFurniture = []snapshot.InteractableRecord{
	{Kind: "counter", Utility: "food", Capacity: 4, Cost: 6, PriceTier: 2, OpenHour: 7, CloseHour: 22},
	{Kind: "snack_bar", Utility: "food", Capacity: 2, Cost: 3, PriceTier: 1, OpenHour: 7, CloseHour: 22},
	{Kind: "table", Utility: "social", Capacity: 4, OpenHour: 7, CloseHour: 22},
	{Kind: "toilet", Utility: "toilet", Capacity: 1},
	{Kind: "arcade", Utility: "fun", Capacity: 1, Cost: 2, PriceTier: 1, MinAge: 8, OpenHour: 10, CloseHour: 22},
}

// furnishPark adds a bench, a playground and noise-placed trees.
func (b *builder) furnishPark(slots []model.Point) {
	if len(slots) == 0 {
		return
	}
	b.place(snapshot.InteractableRecord{Kind: "bench", Utility: model.UtilitySocial.String(), Capacity: 3}, slots[0])
	if len(slots) > 1 {
		b.place(snapshot.InteractableRecord{Kind: "playground", Utility: model.UtilityFun.String(), Capacity: 4}, slots[1])
	}
	for _, p := range slots[2:] {
		if octaveNoise(b.decor, p.X, p.Y, 2, 0.05, 0.5) > 0.6 {
			b.place(snapshot.InteractableRecord{Kind: "tree"}, p)
		}
	}
}

// slots returns furniture anchors inside r: every other cell on the second
// and fourth rows, skipping the wall cells.
func (b *builder) slots(r model.Rect) []model.Point {
	cs := b.cfg.CellSize
	var out []model.Point
	for _, row := range []float64{2, 4} {
		for x := r.X + 2*cs; x+cs <= r.X+r.W-2*cs; x += 2 * cs {
			out = append(out, model.Point{X: x, Y: r.Y + row*cs})
		}
	}
	return out
}

func (b *builder) place(rec snapshot.InteractableRecord, at model.Point) {
	b.itemID++
	rec.ID = b.itemID
	rec.Bounds = model.Rect{X: at.X, Y: at.Y, W: b.cfg.CellSize, H: b.cfg.CellSize}
	b.town.Map.Interactables = append(b.town.Map.Interactables, rec)
}

// jobTitles cycles through workplace job titles.
var jobTitles = []string{"clerk", "cook", "teacher", "doctor"}

// Population returns one household per home: two working adults, and
// children or an elder depending on the seed.
func (t *Town) Population() []Household {
	rnd := rand.New(rand.NewPCG(uint64(t.Seed), 0x68656172))
	out := make([]Household, 0, len(t.Homes))
	for i, home := range t.Homes {
		surname := surnames[i%len(surnames)]
		h := Household{HomeID: home}
		for j := range 2 {
			m := Member{
				Name: fmt.Sprintf("%s %s", firstNames[rnd.IntN(len(firstNames))], surname),
				Age:  25 + rnd.IntN(30),
				Role: "adult",
			}
			if len(t.Workplaces) > 0 {
				m.WorkplaceID = t.Workplaces[(i+j)%len(t.Workplaces)]
				m.JobTitle = jobTitles[(i+j)%len(jobTitles)]
			}
			h.Members = append(h.Members, m)
		}
		for range rnd.IntN(3) {
			h.Members = append(h.Members, Member{
				Name: fmt.Sprintf("%s %s", firstNames[rnd.IntN(len(firstNames))], surname),
				Age:  4 + rnd.IntN(12),
				Role: "child",
			})
		}
		if rnd.IntN(4) == 0 {
			h.Members = append(h.Members, Member{
				Name: fmt.Sprintf("%s %s", firstNames[rnd.IntN(len(firstNames))], surname),
				Age:  68 + rnd.IntN(15),
				Role: "elder",
			})
		}
		out = append(out, h)
	}
	return out
}

// Household is a family to spawn into one home.
type Household struct {
	HomeID  model.HomeID
	Members []Member
}

// Command converts the household into a spawn command.
func (h Household) Command() sim.SpawnFamily {
	cmd := sim.SpawnFamily{HomeID: h.HomeID}
	for _, m := range h.Members {
		cmd.Members = append(cmd.Members, sim.AgentConfig{
			Name:        m.Name,
			Age:         m.Age,
			Role:        m.Role,
			WorkplaceID: m.WorkplaceID,
			JobTitle:    m.JobTitle,
		})
	}
	return cmd
}

// Member is one person of a household.
type Member struct {
	Name        string
	Age         int
	Role        string
	WorkplaceID model.WorkplaceID
	JobTitle    string
}

var firstNames = []string{
	"Ada", "Ben", "Cleo", "Dan", "Eva", "Finn", "Gus", "Hana", "Ivo", "Jade",
	"Kai", "Lea", "Milo", "Nia", "Otto", "Pia", "Ravi", "Sara", "Tom", "Uma",
}

var surnames = []string{
	"Archer", "Baker", "Carter", "Dalton", "Ellis", "Fisher", "Grant", "Hayes",
	"Irving", "Jensen", "Keller", "Lowe",
}
