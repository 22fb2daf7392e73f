package world

// FullTurn is the number of angle units in a full rotation.
const FullTurn = 4096

// NoActor marks an empty actor reference (collision, carrier, hit source).
const NoActor = -1

// Vec3 is a position in world units.
type Vec3 struct {
	X, Y, Z int
}

// Add returns v+o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// NormalizeAngle folds a into [0, FullTurn).
func NormalizeAngle(a int) int {
	a %= FullTurn
	if a < 0 {
		a += FullTurn
	}
	return a
}

// Actor is the mutable state scripts read and write. Fields are exported so
// collaborators can drive them directly; the engine is single-threaded.
type Actor struct {
	Index int
	Name  string

	Pos   Vec3
	Home  Vec3
	Angle int
	Speed int

	Body int
	Anim int
	// AnimEnded is set by the animation system on the frame the current
	// animation completes a loop.
	AnimEnded bool
	Sprite    int
	Frame     int

	Visible    bool
	Shadow     bool
	Dead       bool
	CanFall    bool
	Background bool
	ObjCol     bool
	BrickCol   bool

	LifePoints int
	Armor      int
	Bonus      int

	// Collision is the actor touched this frame, BrickHit the brick flag.
	Collision int
	BrickHit  int
	HitBy     int
	CarriedBy int
	Zone      int

	DirMode   int
	DirTarget int

	// DoorGoal is where a sliding door is heading while DoorMoving.
	DoorGoal   Vec3
	DoorMoving bool
}

// NewActor returns an actor at index i with neutral defaults.
func NewActor(i int) *Actor {
	return &Actor{
		Index:      i,
		Body:       -1,
		Anim:       0,
		Visible:    true,
		LifePoints: 255,
		Collision:  NoActor,
		BrickHit:   0,
		HitBy:      NoActor,
		CarriedBy:  NoActor,
		Zone:       -1,
		DirTarget:  NoActor,
	}
}

// SetAnim switches the current animation, restarting the loop when it
// changes.
func (a *Actor) SetAnim(anim int) {
	if a.Anim == anim {
		return
	}
	a.Anim = anim
	a.AnimEnded = false
}

// InventorySize is the number of inventory slots tracked for the hero.
const InventorySize = 40

// Hero is the player-owned state scripts can inspect and modify.
type Hero struct {
	Gold          int
	LittleKeys    int
	Chapter       int
	MagicLevel    int
	MagicPoints   int
	Fuel          int
	CloverBoxes   int
	Behaviour     int
	UsedInventory int
	Action        bool
	Inventory     [InventorySize]int
}

const (
	MaxGold        = 999
	MaxFuel        = 100
	MaxCloverBoxes = 10
	MaxLifePoints  = 255
)

// MaxMagicPoints returns the magic capacity for the current level.
func (h *Hero) MaxMagicPoints() int {
	return h.MagicLevel * 20
}
