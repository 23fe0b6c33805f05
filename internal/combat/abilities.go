package combat

import "strings"

// AbilitySets are the curated ability-category sets supplied by the
// static-data collaborator. The defaults cover the abilities that matter
// for highlight detection; callers can supply their own sets for other
// patches.
type AbilitySets struct {
	AreaImpact   map[string]bool   // abilities that hit multiple heroes
	BigTeamfight map[string]bool   // ultimates that define teamfights
	GapClose     map[string]bool   // blink-style initiation items
	Durability   map[string]bool   // BKB-style durability cooldowns
	Refresh      map[string]bool   // cooldown-reset abilities
	Save         map[string]string // defensive ability -> save type
}

func setOf(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

var bigTeamfightAbilities = setOf(
	"faceless_void_chronosphere",
	"enigma_black_hole",
	"magnataur_reverse_polarity",
	"tidehunter_ravage",
	"earthshaker_echo_slam",
	"jakiro_ice_path",
	"shadow_fiend_requiem_of_souls",
	"nevermore_requiem",
	"warlock_rain_of_chaos",
	"silencer_global_silence",
	"disruptor_static_storm",
	"medusa_stone_gaze",
	"juggernaut_omni_slash",
	"naga_siren_song_of_the_siren",
	"pangolier_gyroshell",
	"pugna_life_drain",
	"sandking_epicenter",
	"axe_berserkers_call",
)

var areaImpactAbilities = setOf(
	"earthshaker_echo_slam",
	"earthshaker_fissure",
	"nevermore_requiem",
	"shadow_fiend_requiem_of_souls",
	"enigma_black_hole",
	"tidehunter_ravage",
	"magnataur_reverse_polarity",
	"faceless_void_chronosphere",
	"sandking_epicenter",
	"jakiro_macropyre",
	"disruptor_static_storm",
	"pugna_nether_blast",
	"naga_siren_rip_tide",
	"medusa_mystic_snake",
)

// All blink variants count as gap-close initiation items.
var gapCloseAbilities = setOf(
	"item_blink",
	"item_swift_blink",
	"item_arcane_blink",
	"item_overwhelming_blink",
)

var durabilityAbilities = setOf(
	"item_black_king_bar",
)

var refreshAbilities = setOf(
	"item_refresher",
	"refresher_shard",
)

// Save abilities and items mapped to the kind of save they perform.
// Self-targeted entries use a self_ prefix; the classifier treats those
// as saves with no separate saver.
var saveAbilities = map[string]string{
	"item_outworld_staff":       "self_banish",
	"item_aeon_disk":            "self_shield",
	"item_satanic":              "self_heal",
	"juggernaut_blade_fury":     "self_spell_immunity",
	"item_glimmer_cape":         "ally_invisibility",
	"item_force_staff":          "ally_reposition",
	"item_lotus_orb":            "ally_dispel",
	"shadow_demon_disruption":   "ally_banish",
	"oracle_false_promise":      "ally_delay",
	"dazzle_shallow_grave":      "ally_grave",
	"abaddon_aphotic_shield":    "ally_shield",
	"omniknight_guardian_angel": "ally_immunity",
	"pugna_decrepify":           "ally_ethereal",
}

// DefaultAbilitySets returns the curated sets for the current patch.
func DefaultAbilitySets() AbilitySets {
	return AbilitySets{
		AreaImpact:   areaImpactAbilities,
		BigTeamfight: bigTeamfightAbilities,
		GapClose:     gapCloseAbilities,
		Durability:   durabilityAbilities,
		Refresh:      refreshAbilities,
		Save:         saveAbilities,
	}
}

// SelfSave reports whether a save type applies to the caster itself.
func SelfSave(saveType string) bool {
	return strings.HasPrefix(saveType, "self_")
}
