package fleet

import (
	"math"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/AsunaPahlo/armada-web/internal/estimator"
	"github.com/AsunaPahlo/armada-web/internal/gamedata"
)

// FC mode labels for the dashboard.
const (
	ModeEmpty    = "empty"
	ModeFarming  = "farming"
	ModeLeveling = "leveling"
	ModeMixed    = "mixed"
)

// diveCreditSlotCosts[i] is the dive-credit price of registering slot i+1.
var diveCreditSlotCosts = [4]int{1, 3, 5, 7}

// SummaryData is the fleet-wide roll-up at the top of the dashboard.
type SummaryData struct {
	TotalFCs            int        `json:"total_fcs"`
	TotalSubs           int        `json:"total_subs"`
	ReadySubs           int        `json:"ready_subs"`
	ReturningSoonSubs   int        `json:"returning_soon_subs"`
	VoyagingSubs        int        `json:"voyaging_subs"`
	FarmingSubs         int        `json:"farming_subs"`
	LevelingSubs        int        `json:"leveling_subs"`
	TotalGilPerDay      float64    `json:"total_gil_per_day"`
	TotalCeruleumPerDay float64    `json:"total_ceruleum_per_day"`
	TotalKitsPerDay     float64    `json:"total_kits_per_day"`
	LastUpdate          *time.Time `json:"last_update"`
	GeneratedAt         time.Time  `json:"generated_at"`
}

// CharacterRef identifies a character within an FC summary.
type CharacterRef struct {
	Name    string `json:"name"`
	World   string `json:"world"`
	Account string `json:"account"`
}

// SubmarineView is one submarine row with its context resolved.
type SubmarineView struct {
	Account        string     `json:"account"`
	Character      string     `json:"character"`
	World          string     `json:"world"`
	FCID           string     `json:"fc_id"`
	FCName         string     `json:"fc_name"`
	Name           string     `json:"name"`
	Status         Status     `json:"status"`
	HoursRemaining float64    `json:"hours_remaining"`
	ReturnTime     *time.Time `json:"return_time"`
	Level          int        `json:"level"`
	ExpProgress    float64    `json:"exp_progress"`
	Build          string     `json:"build"`
	Parts          []string   `json:"parts"`
	Route          string     `json:"route"`
	Enabled        bool       `json:"enabled"`
	GilPerDay      float64    `json:"gil_per_day"`
	OnUnlockPlan   bool       `json:"on_unlock_plan"`
	UnlockPlanName string     `json:"unlock_plan_name,omitempty"`
}

// FCSummary is one Free Company's card on the dashboard.
type FCSummary struct {
	FCID              string          `json:"fc_id"`
	FCName            string          `json:"fc_name"`
	World             string          `json:"world"`
	Notes             string          `json:"notes,omitempty"`
	Accounts          []string        `json:"accounts"`
	Characters        []CharacterRef  `json:"characters"`
	Submarines        []SubmarineView `json:"submarines"`
	Routes            []string        `json:"routes"`
	UnifiedRoute      *string         `json:"unified_route"`
	UnifiedCharacter  *string         `json:"unified_character"`
	TotalSubs         int             `json:"total_subs"`
	ReadySubs         int             `json:"ready_subs"`
	LevelingSubs      int             `json:"leveling_subs"`
	Gil               int64           `json:"fc_gil"`
	FCPoints          int             `json:"fc_points"`
	Ceruleum          int             `json:"ceruleum"`
	RepairKits        int             `json:"repair_kits"`
	GilPerDay         float64         `json:"gil_per_day"`
	CeruleumPerDay    float64         `json:"ceruleum_per_day"`
	KitsPerDay        float64         `json:"kits_per_day"`
	SoonestReturn     *float64        `json:"soonest_return"`
	SoonestReturnTime *time.Time      `json:"soonest_return_time"`
	DaysUntilRestock  *float64        `json:"days_until_restock"`
	LimitingResource  string          `json:"limiting_resource,omitempty"`
	Mode              string          `json:"mode"`
	DiveCredits       int             `json:"dive_credits"`
	UnlockedSlots     int             `json:"unlocked_slots"`
	NeedsDiveCredits  bool            `json:"needs_dive_credits"`
	DiveCreditsNeeded int             `json:"dive_credits_needed"`
	HasDuplicateSubs  bool            `json:"has_duplicate_subs"`
}

// FCSupply is one FC's row in the supply forecast.
type FCSupply struct {
	FCID             string   `json:"fc_id"`
	FCName           string   `json:"fc_name"`
	Ceruleum         int      `json:"ceruleum"`
	RepairKits       int      `json:"repair_kits"`
	CeruleumPerDay   float64  `json:"ceruleum_per_day"`
	KitsPerDay       float64  `json:"kits_per_day"`
	DaysUntilRestock *float64 `json:"days_until_restock"`
	LimitingResource string   `json:"limiting_resource,omitempty"`
}

// SupplyForecast projects when consumables run out. The fleet-wide figure is
// the soonest-depleting FC, not a pooled total, because supplies do not move
// between companies.
type SupplyForecast struct {
	TotalCeruleum    int        `json:"total_ceruleum"`
	TotalRepairKits  int        `json:"total_repair_kits"`
	CeruleumPerDay   float64    `json:"ceruleum_per_day"`
	KitsPerDay       float64    `json:"kits_per_day"`
	DaysUntilRestock *float64   `json:"days_until_restock"`
	LimitingResource string     `json:"limiting_resource,omitempty"`
	FCs              []FCSupply `json:"fcs"`
}

// DashboardData is the complete dashboard payload.
type DashboardData struct {
	Summary    SummaryData     `json:"summary"`
	Supply     SupplyForecast  `json:"supply"`
	FCs        []FCSummary     `json:"fcs"`
	Submarines []SubmarineView `json:"submarines"`
}

// Aggregator turns the raw per-producer snapshots into the dashboard view
// and feeds the estimator with fleet inputs.
type Aggregator struct {
	store       *Store
	est         *estimator.Estimator
	knownRoutes map[string]bool

	mu         sync.RWMutex
	fcSettings map[string]FCSettings
}

// NewAggregator builds an aggregator. knownRoutes names the established
// farming routes; submarines off those routes count as leveling.
func NewAggregator(store *Store, est *estimator.Estimator, knownRoutes map[string]bool, fcSettings map[string]FCSettings) *Aggregator {
	if knownRoutes == nil {
		knownRoutes = map[string]bool{}
	}
	if fcSettings == nil {
		fcSettings = map[string]FCSettings{}
	}
	return &Aggregator{
		store:       store,
		est:         est,
		knownRoutes: knownRoutes,
		fcSettings:  fcSettings,
	}
}

// SetFCSettings swaps in fresh operator overrides.
func (a *Aggregator) SetFCSettings(settings map[string]FCSettings) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.fcSettings = settings
}

func (a *Aggregator) settingsFor(fcID string) FCSettings {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.fcSettings[fcID]
}

// fcGroup is the intermediate per-FC accumulation before summarizing.
type fcGroup struct {
	id       string
	info     FCInfo
	world    string
	accounts []string
	chars    []CharacterRef

	ceruleum    int
	repairKits  int
	diveCredits int
	slots       int

	sectors     map[string]bool
	subs        []SubmarineView
	profiles    []estimator.SubmarineProfile
	subAccounts map[string][]string
}

// groupByFC walks every snapshot and buckets characters by Free Company,
// skipping hidden FCs. Sector knowledge is unioned across characters.
func (a *Aggregator) groupByFC(now time.Time) []*fcGroup {
	groups := make(map[string]*fcGroup)
	var order []string

	for _, snap := range a.store.Snapshots() {
		for _, acct := range snap.Accounts {
			for _, ch := range acct.Characters {
				if ch.FCID == 0 {
					continue
				}
				fcID := strconv.FormatInt(ch.FCID, 10)
				if a.settingsFor(fcID).Hidden {
					continue
				}

				g, ok := groups[fcID]
				if !ok {
					g = &fcGroup{
						id:          fcID,
						info:        acct.FCs[ch.FCID],
						world:       ch.World,
						sectors:     make(map[string]bool),
						subAccounts: make(map[string][]string),
					}
					groups[fcID] = g
					order = append(order, fcID)
				}

				if !contains(g.accounts, acct.Nickname) {
					g.accounts = append(g.accounts, acct.Nickname)
				}
				g.chars = append(g.chars, CharacterRef{
					Name:    ch.Name,
					World:   ch.World,
					Account: acct.Nickname,
				})
				g.ceruleum += ch.Ceruleum
				g.repairKits += ch.RepairKits
				if ch.DiveCredits > g.diveCredits {
					g.diveCredits = ch.DiveCredits
				}
				if ch.SubSlots > g.slots {
					g.slots = ch.SubSlots
				}
				for letter := range gamedata.LettersForSectors(ch.UnlockedSectors) {
					g.sectors[letter] = true
				}

				for _, sub := range ch.Submarines {
					status, hoursRemaining := sub.StatusAt(now)
					ret := sub.ReturnTime
					view := SubmarineView{
						Account:        acct.Nickname,
						Character:      ch.Name,
						World:          ch.World,
						FCID:           fcID,
						FCName:         g.info.Name,
						Name:           sub.Name,
						Status:         status,
						HoursRemaining: roundHours(hoursRemaining),
						ReturnTime:     &ret,
						Level:          sub.Level,
						ExpProgress:    sub.ExpProgress,
						Build:          sub.Build,
						Parts:          sub.Parts,
						Route:          sub.RouteName,
						Enabled:        sub.Enabled,
						GilPerDay:      sub.GilPerDay,
						OnUnlockPlan:   sub.OnUnlockPlan(),
						UnlockPlanName: acct.UnlockPlans[sub.UnlockPlanGUID],
					}
					g.subs = append(g.subs, view)
					g.subAccounts[sub.Name] = append(g.subAccounts[sub.Name], acct.Nickname)

					if sub.Enabled {
						profile := estimator.SubmarineProfile{
							Name:           sub.Name,
							Level:          sub.Level,
							ExpProgress:    sub.ExpProgress,
							Build:          sub.Build,
							OnUnlockPlan:   sub.OnUnlockPlan(),
							UnlockPlanName: view.UnlockPlanName,
							RouteKnown:     sub.RouteName != "" || len(sub.RoutePoints) > 0,
							Route:          sub.RouteName,
							VoyageStatus:   string(status),
							HoursRemaining: roundHours(hoursRemaining),
							ReturnTime:     &ret,
						}
						g.profiles = append(g.profiles, profile)
					}
				}
			}
		}
	}

	out := make([]*fcGroup, 0, len(groups))
	sort.Strings(order)
	for _, id := range order {
		out = append(out, groups[id])
	}
	return out
}

// BuildDashboard assembles the full dashboard payload from current state.
func (a *Aggregator) BuildDashboard(now time.Time) *DashboardData {
	groups := a.groupByFC(now)

	data := &DashboardData{
		Summary: SummaryData{GeneratedAt: now.UTC()},
		FCs:     make([]FCSummary, 0, len(groups)),
	}

	if last := a.store.LastUpdate(); !last.IsZero() {
		data.Summary.LastUpdate = &last
	}

	var supplyFCs []FCSupply
	for _, g := range groups {
		summary := a.summarizeFC(g, now)
		data.FCs = append(data.FCs, summary)
		data.Submarines = append(data.Submarines, g.subs...)

		data.Summary.TotalFCs++
		data.Summary.TotalSubs += summary.TotalSubs
		data.Summary.ReadySubs += summary.ReadySubs
		data.Summary.LevelingSubs += summary.LevelingSubs
		data.Summary.TotalGilPerDay += summary.GilPerDay
		data.Summary.TotalCeruleumPerDay += summary.CeruleumPerDay
		data.Summary.TotalKitsPerDay += summary.KitsPerDay

		supplyFCs = append(supplyFCs, FCSupply{
			FCID:             summary.FCID,
			FCName:           summary.FCName,
			Ceruleum:         summary.Ceruleum,
			RepairKits:       summary.RepairKits,
			CeruleumPerDay:   summary.CeruleumPerDay,
			KitsPerDay:       summary.KitsPerDay,
			DaysUntilRestock: summary.DaysUntilRestock,
			LimitingResource: summary.LimitingResource,
		})
	}

	for _, view := range data.Submarines {
		switch view.Status {
		case StatusReturningSoon:
			data.Summary.ReturningSoonSubs++
		case StatusVoyaging:
			data.Summary.VoyagingSubs++
		}
	}
	data.Summary.FarmingSubs = data.Summary.TotalSubs - data.Summary.LevelingSubs

	sort.Slice(data.Submarines, func(i, j int) bool {
		return data.Submarines[i].HoursRemaining < data.Submarines[j].HoursRemaining
	})

	data.Supply = buildSupplyForecast(supplyFCs)
	return data
}

func (a *Aggregator) summarizeFC(g *fcGroup, now time.Time) FCSummary {
	settings := a.settingsFor(g.id)

	summary := FCSummary{
		FCID:        g.id,
		FCName:      g.info.Name,
		World:       g.world,
		Notes:       settings.Notes,
		Accounts:    g.accounts,
		Characters:  g.chars,
		Submarines:  g.subs,
		Gil:         g.info.Gil,
		FCPoints:    g.info.FCPoints,
		Ceruleum:    g.ceruleum,
		RepairKits:  g.repairKits,
		DiveCredits: g.diveCredits,
		TotalSubs:   len(g.subs),
	}

	summary.UnlockedSlots = g.slots
	if summary.UnlockedSlots == 0 {
		summary.UnlockedSlots = len(g.subs)
	}

	routeSet := make(map[string]bool)
	characterSet := make(map[string]bool)
	leveling := 0
	var soonest *SubmarineView

	for i := range g.subs {
		sub := &g.subs[i]
		if sub.Status == StatusReady {
			summary.ReadySubs++
		}
		if a.isLeveling(sub) {
			leveling++
		}
		if sub.Route != "" {
			routeSet[sub.Route] = true
		}
		characterSet[sub.Character] = true
		summary.GilPerDay += sub.GilPerDay

		if sub.Status != StatusReady && (soonest == nil || sub.HoursRemaining < soonest.HoursRemaining) {
			soonest = sub
		}

		if len(g.subAccounts[sub.Name]) > 1 {
			summary.HasDuplicateSubs = true
		}
	}
	// A workshop holds at most four submarines, so more means double reporting.
	if len(g.subs) > estimator.MaxFleetSize {
		summary.HasDuplicateSubs = true
	}
	summary.LevelingSubs = leveling

	for route := range routeSet {
		summary.Routes = append(summary.Routes, route)
	}
	sort.Strings(summary.Routes)
	if len(routeSet) == 1 {
		route := summary.Routes[0]
		summary.UnifiedRoute = &route
	}
	if len(characterSet) == 1 && len(g.subs) > 0 {
		name := g.subs[0].Character
		summary.UnifiedCharacter = &name
	}

	if soonest != nil {
		hours := soonest.HoursRemaining
		summary.SoonestReturn = &hours
		summary.SoonestReturnTime = soonest.ReturnTime
	}

	// Consumption rates come from the producer's per-submarine figures.
	for _, snap := range a.store.Snapshots() {
		for _, acct := range snap.Accounts {
			for _, ch := range acct.Characters {
				if strconv.FormatInt(ch.FCID, 10) != g.id {
					continue
				}
				for _, sub := range ch.Submarines {
					summary.CeruleumPerDay += sub.TanksPerDay
					summary.KitsPerDay += sub.KitsPerDay
				}
			}
		}
	}

	summary.DaysUntilRestock, summary.LimitingResource = restockHorizon(
		g.ceruleum, summary.CeruleumPerDay,
		g.repairKits, summary.KitsPerDay,
	)

	switch {
	case len(g.subs) == 0:
		summary.Mode = ModeEmpty
	case leveling == 0:
		summary.Mode = ModeFarming
	case leveling == len(g.subs):
		summary.Mode = ModeLeveling
	default:
		summary.Mode = ModeMixed
	}

	if summary.UnlockedSlots < len(diveCreditSlotCosts) {
		cost := diveCreditSlotCosts[summary.UnlockedSlots]
		summary.DiveCreditsNeeded = cost
		summary.NeedsDiveCredits = g.diveCredits < cost
	}

	return summary
}

// isLeveling reports whether a submarine is still climbing: it follows an
// unlock plan, or sails something other than an established farming route
// while below max level.
func (a *Aggregator) isLeveling(sub *SubmarineView) bool {
	if sub.OnUnlockPlan {
		return true
	}
	return sub.Level < gamedata.MaxLevel && !a.knownRoutes[sub.Route]
}

// restockHorizon returns days until the first consumable runs out and which
// one it is. Zero consumption means no horizon.
func restockHorizon(ceruleum int, ceruleumPerDay float64, kits int, kitsPerDay float64) (*float64, string) {
	var (
		horizon  *float64
		limiting string
	)

	if ceruleumPerDay > 0 {
		days := float64(ceruleum) / ceruleumPerDay
		horizon = &days
		limiting = "ceruleum"
	}
	if kitsPerDay > 0 {
		days := float64(kits) / kitsPerDay
		if horizon == nil || days < *horizon {
			horizon = &days
			limiting = "repair_kits"
		}
	}

	if horizon != nil {
		rounded := roundHours(*horizon)
		horizon = &rounded
	}
	return horizon, limiting
}

func buildSupplyForecast(fcs []FCSupply) SupplyForecast {
	forecast := SupplyForecast{FCs: fcs}

	for _, fc := range fcs {
		forecast.TotalCeruleum += fc.Ceruleum
		forecast.TotalRepairKits += fc.RepairKits
		forecast.CeruleumPerDay += fc.CeruleumPerDay
		forecast.KitsPerDay += fc.KitsPerDay

		if fc.DaysUntilRestock == nil {
			continue
		}
		if forecast.DaysUntilRestock == nil || *fc.DaysUntilRestock < *forecast.DaysUntilRestock {
			days := *fc.DaysUntilRestock
			forecast.DaysUntilRestock = &days
			forecast.LimitingResource = fc.LimitingResource
		}
	}

	return forecast
}

// BuildFleetEstimates runs the estimator for every visible FC at the given
// target level.
func (a *Aggregator) BuildFleetEstimates(targetLevel int, now time.Time) []estimator.FleetEstimate {
	groups := a.groupByFC(now)

	out := make([]estimator.FleetEstimate, 0, len(groups))
	for _, g := range groups {
		out = append(out, a.est.EstimateFleet(estimator.FleetInput{
			FCID:            g.id,
			FCName:          g.info.Name,
			World:           g.world,
			TargetLevel:     targetLevel,
			Submarines:      g.profiles,
			UnlockedSectors: g.sectors,
		}))
	}
	return out
}

// FilterForScopes returns a copy of the dashboard restricted to the FCs a
// viewer may see. A nil scope set means unrestricted. The summary and supply
// forecast are recomputed over the remaining FCs.
func FilterForScopes(data *DashboardData, scopes map[string]bool) *DashboardData {
	if scopes == nil {
		return data
	}

	filtered := &DashboardData{
		Summary: SummaryData{
			LastUpdate:  data.Summary.LastUpdate,
			GeneratedAt: data.Summary.GeneratedAt,
		},
	}

	var supplyFCs []FCSupply
	for _, fc := range data.FCs {
		if !scopes[fc.FCID] {
			continue
		}
		filtered.FCs = append(filtered.FCs, fc)
		filtered.Summary.TotalFCs++
		filtered.Summary.TotalSubs += fc.TotalSubs
		filtered.Summary.ReadySubs += fc.ReadySubs
		filtered.Summary.LevelingSubs += fc.LevelingSubs
		filtered.Summary.TotalGilPerDay += fc.GilPerDay
		filtered.Summary.TotalCeruleumPerDay += fc.CeruleumPerDay
		filtered.Summary.TotalKitsPerDay += fc.KitsPerDay

		supplyFCs = append(supplyFCs, FCSupply{
			FCID:             fc.FCID,
			FCName:           fc.FCName,
			Ceruleum:         fc.Ceruleum,
			RepairKits:       fc.RepairKits,
			CeruleumPerDay:   fc.CeruleumPerDay,
			KitsPerDay:       fc.KitsPerDay,
			DaysUntilRestock: fc.DaysUntilRestock,
			LimitingResource: fc.LimitingResource,
		})
	}

	for _, view := range data.Submarines {
		if !scopes[view.FCID] {
			continue
		}
		filtered.Submarines = append(filtered.Submarines, view)
		switch view.Status {
		case StatusReturningSoon:
			filtered.Summary.ReturningSoonSubs++
		case StatusVoyaging:
			filtered.Summary.VoyagingSubs++
		}
	}
	filtered.Summary.FarmingSubs = filtered.Summary.TotalSubs - filtered.Summary.LevelingSubs

	filtered.Supply = buildSupplyForecast(supplyFCs)
	return filtered
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func roundHours(v float64) float64 {
	if v < 0 {
		return 0
	}
	return math.Round(v*100) / 100
}
