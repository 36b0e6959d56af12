package catalog

import "sort"

// DrillIcon names the pictogram shown next to a drill.
type DrillIcon string

const (
	IconActivity      DrillIcon = "Activity"
	IconArrowDown     DrillIcon = "ArrowDown"
	IconArrowRight    DrillIcon = "ArrowRight"
	IconArrowUp       DrillIcon = "ArrowUp"
	IconBot           DrillIcon = "Bot"
	IconBrain         DrillIcon = "Brain"
	IconCircle        DrillIcon = "Circle"
	IconCombine       DrillIcon = "Combine"
	IconDroplet       DrillIcon = "Droplet"
	IconDumbbell      DrillIcon = "Dumbbell"
	IconFootprints    DrillIcon = "Footprints"
	IconMusic         DrillIcon = "Music"
	IconRepeat        DrillIcon = "Repeat"
	IconRollerCoaster DrillIcon = "RollerCoaster"
	IconRotateCw      DrillIcon = "RotateCw"
	IconRoute         DrillIcon = "RouteIcon"
	IconTarget        DrillIcon = "Target"
	IconTimer         DrillIcon = "Timer"
	IconTrendingUp    DrillIcon = "TrendingUp"
	IconWaves         DrillIcon = "WavesIcon"
	IconZap           DrillIcon = "Zap"
)

var drillIcons = map[DrillIcon]struct{}{
	IconActivity: {}, IconArrowDown: {}, IconArrowRight: {}, IconArrowUp: {},
	IconBot: {}, IconBrain: {}, IconCircle: {}, IconCombine: {},
	IconDroplet: {}, IconDumbbell: {}, IconFootprints: {}, IconMusic: {},
	IconRepeat: {}, IconRollerCoaster: {}, IconRotateCw: {}, IconRoute: {},
	IconTarget: {}, IconTimer: {}, IconTrendingUp: {}, IconWaves: {},
	IconZap: {},
}

// Valid reports whether the icon is one the client knows how to render.
func (i DrillIcon) Valid() bool {
	_, ok := drillIcons[i]
	return ok
}

// DrillIcons returns every accepted icon name, sorted.
func DrillIcons() []string {
	names := make([]string, 0, len(drillIcons))
	for icon := range drillIcons {
		names = append(names, string(icon))
	}
	sort.Strings(names)
	return names
}
