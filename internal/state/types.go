/*
Package state
File: types.go
Description:
    The game-state document: one root value composed of independent
    slices (spec.md §3). No cross-slice pointers; slices reference each
    other only by identifier. The projector (projector.go and the
    per-slice handler files) is the sole mutator; everything here is pure
    data.
*/
package state

import "time"

// Root is the top-level game-state document. It lives for the process
// lifetime and is never destroyed, only mutated slice by slice.
type Root struct {
	Commander Commander `json:"commander"`
	Ship      Ship      `json:"ship"`
	Location  Location  `json:"location"`
	Materials Materials `json:"materials"`
	Missions  Missions  `json:"missions"`
	Session   Session   `json:"session"`
	Carrier   *Carrier  `json:"carrier"`
	OnFoot    OnFoot    `json:"onFoot"`
	Meta      Meta      `json:"meta"`
}

// Meta carries bookkeeping fields that aren't tied to a single game slice.
type Meta struct {
	Initialized bool      `json:"initialized"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// NewRoot returns a Root with all slices zeroed to their documented defaults.
func NewRoot() *Root {
	return &Root{
		Session: newSession(),
	}
}

// --- commander ---------------------------------------------------------

// Rank is one of the commander's eight named rank categories.
type Rank struct {
	Rank     int `json:"rank"`
	Progress int `json:"progress"`
}

// Reputation tracks standing with the four superpowers.
type Reputation struct {
	Federation float64 `json:"federation"`
	Empire     float64 `json:"empire"`
	Alliance   float64 `json:"alliance"`
	Independent float64 `json:"independent"`
}

// Ranks holds all eight named rank categories.
type Ranks struct {
	Combat       Rank `json:"combat"`
	Trade        Rank `json:"trade"`
	Explore      Rank `json:"explore"`
	Soldier      Rank `json:"soldier"`
	Exobiologist Rank `json:"exobiologist"`
	Empire       Rank `json:"empire"`
	Federation   Rank `json:"federation"`
	CQC          Rank `json:"cqc"`
}

// Commander is the commander/career slice.
type Commander struct {
	FID      string `json:"fid"`
	Name     string `json:"name"`
	Credits  int64  `json:"credits"`
	Loan     int64  `json:"loan"`
	Ranks    Ranks  `json:"ranks"`
	Reputation Reputation `json:"reputation"`

	GameMode string `json:"gameMode"`
	Group    string `json:"group"`
	Language string `json:"language"`
	Version  string `json:"version"`
	Odyssey  bool   `json:"odyssey"`
	Horizons bool   `json:"horizons"`

	Power           string `json:"power"`
	PowerplayMerits int    `json:"powerplayMerits"`
	PowerplayRank   int    `json:"powerplayRank"`
	TimePledged     int64  `json:"timePledged"`

	Squadron string `json:"squadron"`
}

// --- ship ----------------------------------------------------------------

// Fuel tracks the ship's main and reserve tank levels and capacities.
type Fuel struct {
	Main            float64 `json:"main"`
	Reserve         float64 `json:"reserve"`
	MainCapacity    float64 `json:"mainCapacity"`
	ReserveCapacity float64 `json:"reserveCapacity"`
}

// Engineering describes a single applied engineering blueprint on a module.
type Engineering struct {
	BlueprintName string             `json:"blueprintName"`
	Level         int                `json:"level"`
	Quality       float64            `json:"quality"`
	ExperimentalEffect string        `json:"experimentalEffect,omitempty"`
	Modifiers     []EngineeringModifier `json:"modifiers,omitempty"`
}

// EngineeringModifier is one stat change from an engineering blueprint.
type EngineeringModifier struct {
	Label         string  `json:"label"`
	Value         float64 `json:"value"`
	OriginalValue float64 `json:"originalValue"`
	LessIsGood    bool    `json:"lessIsGood"`
}

// Module is one installed ship module, keyed by its Slot string.
type Module struct {
	Slot          string       `json:"slot"`
	Item          string       `json:"item"`
	On            bool         `json:"on"`
	Priority      int          `json:"priority"`
	Health        float64      `json:"health"`
	Value         int64        `json:"value"`
	AmmoInClip    int          `json:"ammoInClip,omitempty"`
	AmmoInHopper  int          `json:"ammoInHopper,omitempty"`
	Engineering   *Engineering `json:"engineering,omitempty"`
}

// CargoItem is one stack of commodity in a cargo hold.
type CargoItem struct {
	Name   string `json:"name"`
	Count  int    `json:"count"`
	Stolen int    `json:"stolen"`
}

// Ship is the current-vessel slice. A Loadout event is authoritative for
// identity, values, hull health, mass, cargo capacity, jump range, fuel
// capacities and the module list (spec.md §3 invariants); it does not set
// the cargo hold, the fuel levels or the live status booleans, which come
// from other events and the live-status sidecar.
type Ship struct {
	ShipType     string `json:"shipType"`
	ShipID       int64  `json:"shipId"`
	Name         string `json:"name"`
	Ident        string `json:"ident"`

	HullValue    int64   `json:"hullValue"`
	ModulesValue int64   `json:"modulesValue"`
	Rebuy        int64   `json:"rebuy"`
	HullHealth   float64 `json:"hullHealth"`

	UnladenMass    float64 `json:"unladenMass"`
	CargoCapacity  int     `json:"cargoCapacity"`
	MaxJumpRange   float64 `json:"maxJumpRange"`

	Fuel Fuel `json:"fuel"`

	Modules    []Module    `json:"modules"`
	Cargo      []CargoItem `json:"cargo"`
	CargoCount int         `json:"cargoCount"`

	HardpointsDeployed bool `json:"hardpointsDeployed"`
	LandingGearDown    bool `json:"landingGearDown"`
	ShieldsUp          bool `json:"shieldsUp"`
	CargoScoopOpen     bool `json:"cargoScoopOpen"`
	LightsOn           bool `json:"lightsOn"`
	FsdCharging        bool `json:"fsdCharging"`
	FsdCooldown        bool `json:"fsdCooldown"`
	FsdMassLocked      bool `json:"fsdMassLocked"`
	SilentRunning      bool `json:"silentRunning"`
	NightVision        bool `json:"nightVision"`
}

// --- location --------------------------------------------------------------

// Station describes the docked station, when any.
type Station struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	MarketID int64  `json:"marketId"`
}

// Surface holds the ship/commander's position on a planetary body.
type Surface struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Altitude  float64 `json:"altitude"`
	Heading   float64 `json:"heading"`
}

// Location is the current-position slice.
type Location struct {
	SystemName    string     `json:"systemName"`
	SystemAddress int64      `json:"systemAddress"`
	StarPos       [3]float64 `json:"starPos"`
	Body          string     `json:"body"`
	BodyID        int        `json:"bodyId"`
	BodyType      string     `json:"bodyType"`

	Docked      bool `json:"docked"`
	Landed      bool `json:"landed"`
	OnFoot      bool `json:"onFoot"`
	Supercruise bool `json:"supercruise"`
	InSRV       bool `json:"inSrv"`
	InFighter   bool `json:"inFighter"`
	InTaxi      bool `json:"inTaxi"`
	InMulticrew bool `json:"inMulticrew"`

	Station *Station `json:"station,omitempty"`
	Surface *Surface `json:"surface,omitempty"`

	DistFromStarLS float64 `json:"distFromStarLs"`

	SystemAllegiance string `json:"systemAllegiance"`
	SystemEconomy    string `json:"systemEconomy"`
	SystemGovernment string `json:"systemGovernment"`
	SystemSecurity   string `json:"systemSecurity"`
	Population       int64  `json:"population"`
}

// --- materials ---------------------------------------------------------

// Material is one owned raw/manufactured/encoded material stack.
type Material struct {
	Name      string `json:"name"`
	Localized string `json:"localized,omitempty"`
	Category  string `json:"category"`
	Grade     int    `json:"grade"`
	Count     int    `json:"count"`
	Maximum   int    `json:"maximum"`
}

// Materials is the three-category materials inventory slice.
type Materials struct {
	Raw          []Material `json:"raw"`
	Manufactured []Material `json:"manufactured"`
	Encoded      []Material `json:"encoded"`
}

// --- missions ------------------------------------------------------------

// Mission is one active mission.
type Mission struct {
	ID                 int64     `json:"id"`
	Name               string    `json:"name"`
	Faction            string    `json:"faction"`
	Expiry             time.Time `json:"expiry"`
	DestinationSystem  string    `json:"destinationSystem"`
	DestinationStation string    `json:"destinationStation"`
	TargetFaction      string    `json:"targetFaction"`
	Target             string    `json:"target"`
	Commodity          string    `json:"commodity"`
	Count              int       `json:"count"`
	KillCount          int       `json:"killCount"`
	Reward             int64     `json:"reward"`
	Influence          string    `json:"influence"`
	ReputationGain     string    `json:"reputation"`
	Wing               bool      `json:"wing"`
	Passengers         bool      `json:"passengers"`
}

// Missions is the active-missions slice.
type Missions struct {
	Active []Mission `json:"active"`
}

// --- session ---------------------------------------------------------------

// Session is the per-game-load metrics slice. It is the only slice reset by
// LoadGame (spec.md §3 Lifecycle).
type Session struct {
	StartTime             time.Time `json:"startTime"`
	Jumps                 int       `json:"jumps"`
	TotalDistance         float64   `json:"totalDistance"`
	FuelUsed              float64   `json:"fuelUsed"`
	FuelScoops            int       `json:"fuelScoops"`
	FuelScooped           float64   `json:"fuelScooped"`
	CreditsEarned         int64     `json:"creditsEarned"`
	CreditsSpent          int64     `json:"creditsSpent"`
	NetProfit             int64     `json:"netProfit"`
	BodiesScanned         int       `json:"bodiesScanned"`
	SystemsVisited        int       `json:"systemsVisited"`
	UniqueSystemsVisited  []string  `json:"uniqueSystemsVisited"`
	BountiesCollected     int       `json:"bountiesCollected"`
	BountyEarnings        int64     `json:"bountyEarnings"`
	MissionsCompleted     int       `json:"missionsCompleted"`
	MissionsFailed        int       `json:"missionsFailed"`
	Deaths                int       `json:"deaths"`
	MaterialsCollected    int       `json:"materialsCollected"`
	CargoTraded           int       `json:"cargoTraded"`
	TradeProfit           int64     `json:"tradeProfit"`
	ExplorationEarnings   int64     `json:"explorationEarnings"`
	MiningRefined         int       `json:"miningRefined"`
	ElapsedSeconds        int64     `json:"elapsedSeconds"`

	uniqueSystemSet map[string]struct{}
}

func newSession() Session {
	return Session{UniqueSystemsVisited: []string{}, uniqueSystemSet: make(map[string]struct{})}
}

// recordSystemVisit increments SystemsVisited unconditionally and adds name
// to UniqueSystemsVisited if it isn't already present (spec.md §4.5).
func (s *Session) recordSystemVisit(name string) {
	if s.uniqueSystemSet == nil {
		s.uniqueSystemSet = make(map[string]struct{})
		for _, n := range s.UniqueSystemsVisited {
			s.uniqueSystemSet[n] = struct{}{}
		}
	}
	s.SystemsVisited++
	if _, seen := s.uniqueSystemSet[name]; !seen && name != "" {
		s.uniqueSystemSet[name] = struct{}{}
		s.UniqueSystemsVisited = append(s.UniqueSystemsVisited, name)
	}
}

func (s *Session) recomputeNetProfit() {
	s.NetProfit = s.CreditsEarned - s.CreditsSpent
}

// --- carrier -------------------------------------------------------------

// CarrierFinance tracks fleet carrier balances and tax rates.
type CarrierFinance struct {
	CarrierBalance     int64   `json:"carrierBalance"`
	ReserveBalance     int64   `json:"reserveBalance"`
	AvailableBalance   int64   `json:"availableBalance"`
	TaxRateRearm       float64 `json:"taxRateRearm"`
	TaxRateRefuel      float64 `json:"taxRateRefuel"`
	TaxRateRepair      float64 `json:"taxRateRepair"`
	TaxRateShipyard    float64 `json:"taxRateShipyard"`
	TaxRateOutfitting  float64 `json:"taxRateOutfitting"`
	TaxRateEstablishment float64 `json:"taxRateEstablishment"`
}

// CarrierSpaceUsage is the fleet carrier's capacity breakdown.
type CarrierSpaceUsage struct {
	TotalCapacity int `json:"totalCapacity"`
	Crew          int `json:"crew"`
	Cargo         int `json:"cargo"`
	CargoSpaceReserved int `json:"cargoSpaceReserved"`
	ShipPacks     int `json:"shipPacks"`
	ModulePacks   int `json:"modulePacks"`
	FreeSpace     int `json:"freeSpace"`
}

// CarrierService is one crew-staffed carrier service.
type CarrierService struct {
	Name      string `json:"name"`
	Activated bool   `json:"activated"`
	Enabled   bool   `json:"enabled"`
	CrewName  string `json:"crewName,omitempty"`
}

// CarrierTradeOrder is one buy/sell order posted on the carrier's trade terminal.
type CarrierTradeOrder struct {
	Commodity   string `json:"commodity"`
	BlackMarket bool   `json:"blackMarket"`
	PurchaseOrder int64 `json:"purchaseOrder,omitempty"`
	SaleOrder     int64 `json:"saleOrder,omitempty"`
	Price         int64  `json:"price"`
	Cancelled     bool   `json:"cancelled"`
}

// Carrier is the fleet-carrier slice. Stays nil until a CarrierStats event
// is observed (spec.md §9 Open Questions).
type Carrier struct {
	ID                 int64             `json:"id"`
	Callsign           string            `json:"callsign"`
	Name               string            `json:"name"`
	DockingAccess      string            `json:"dockingAccess"`
	AllowNotorious     bool              `json:"allowNotorious"`
	FuelLevel          int               `json:"fuelLevel"`
	JumpRangeCurrent   float64           `json:"jumpRangeCurrent"`
	JumpRangeMax       float64           `json:"jumpRangeMax"`
	PendingDecommission bool             `json:"pendingDecommission"`
	SpaceUsage         CarrierSpaceUsage `json:"spaceUsage"`
	Finance            CarrierFinance    `json:"finance"`
	Services           []CarrierService  `json:"services"`
	ShipPacks          []string          `json:"shipPacks"`
	ModulePacks        []string          `json:"modulePacks"`
	TradeOrders        []CarrierTradeOrder `json:"tradeOrders"`
	JumpHistory        []string          `json:"jumpHistory"`
	CurrentSystem      string            `json:"currentSystem"`
	CurrentBody        string            `json:"currentBody"`
}

// --- on-foot ---------------------------------------------------------------

// SuitWeapon is one weapon mounted to a suit loadout slot.
type SuitWeapon struct {
	Slot   string `json:"slot"`
	Name   string `json:"name"`
	Class  int    `json:"class"`
}

// SuitLoadout describes the currently equipped suit and its weapons.
type SuitLoadout struct {
	LoadoutName string       `json:"loadoutName"`
	SuitName    string       `json:"suitName"`
	SuitType    string       `json:"suitType"`
	Weapons     []SuitWeapon `json:"weapons"`
}

// BackpackItem is one stack of on-foot inventory, categorized by Type.
type BackpackItem struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// OrganicScan tracks one in-progress exobiology scan sequence.
type OrganicScan struct {
	Species       string `json:"species"`
	SystemAddress int64  `json:"systemAddress"`
	BodyID        int    `json:"bodyId"`
	ScanCount     int    `json:"scanCount"`
}

// OnFoot is the on-foot/exobiology slice.
type OnFoot struct {
	Active bool `json:"active"`

	CurrentLoadout SuitLoadout   `json:"currentLoadout"`
	Suits          []string      `json:"suits"`
	SavedLoadouts  []SuitLoadout `json:"savedLoadouts"`

	Items        []BackpackItem `json:"items"`
	Components   []BackpackItem `json:"components"`
	Consumables  []BackpackItem `json:"consumables"`
	Data         []BackpackItem `json:"data"`

	ActiveScans      []OrganicScan `json:"activeScans"`
	SpeciesAnalysed  int           `json:"speciesAnalysed"`
}

// GradeCap returns the maximum count for a material of the given grade
// (spec.md §3 invariants): grade 1=300 down to grade 5=100, step 50.
func GradeCap(grade int) int {
	switch grade {
	case 1:
		return 300
	case 2:
		return 250
	case 3:
		return 200
	case 4:
		return 150
	case 5:
		return 100
	default:
		return 300
	}
}
