package generator

import "github.com/stormhead-org/feedsync/internal/model"

// template is one synthetic post blueprint. Bodies contain a single %s verb
// filled with the location's display name.
type template struct {
	body     string
	category model.Category
	tagIDs   []string
}

// regionTemplates feed per-region pools. Kept disjoint from globalTemplates
// so cross-region browsing never repeats region content verbatim.
var regionTemplates = []template{
	{"Just spent the whole weekend exploring %s and my feet are destroyed in the best way.", model.CategoryTravel, []string{"tag-backpacking", "tag-weekend"}},
	{"Does anyone know a quiet cafe near %s with decent wifi? Trying to work remotely for a month.", model.CategoryHelp, []string{"tag-remote-work", "tag-coffee"}},
	{"The street food around %s is criminally underrated. Ate for under five euros all day.", model.CategoryFood, []string{"tag-street-food", "tag-budget"}},
	{"There's a small gallery opening in %s this Friday, free entry until 21:00.", model.CategoryEvents, []string{"tag-art", "tag-free"}},
	{"Looking for a flatmate near %s from next month, two rooms, washing machine included.", model.CategoryHousing, []string{"tag-flatshare"}},
	{"The morning market at %s opens at 6am and the vendors are lovely if you greet them in the local language.", model.CategoryCulture, []string{"tag-markets", "tag-local-life"}},
	{"Hot take: %s is better in the off season. No crowds, half the price, same views.", model.CategoryTravel, []string{"tag-off-season"}},
	{"Anyone else been to the tiny ramen place two streets from %s? Line was an hour but worth it.", model.CategoryFood, []string{"tag-ramen", "tag-queue"}},
	{"My landlord near %s just raised rent 20%%. Is that even legal here? Where do I check?", model.CategoryHousing, []string{"tag-rent", "tag-legal"}},
	{"The festival parade passes %s on Saturday, roads close from noon, plan ahead.", model.CategoryEvents, []string{"tag-festival", "tag-traffic"}},
	{"Lost my transit card somewhere around %s today. Any chance lost and found actually works here?", model.CategoryHelp, []string{"tag-transit", "tag-lost-found"}},
	{"Spent an afternoon sketching at %s. Locals kept stopping to chat, ended up with three dinner invitations.", model.CategoryCulture, []string{"tag-art", "tag-local-life"}},
	{"Day trip report from %s: trains were on time, views were not overrated, bring cash.", model.CategoryTravel, []string{"tag-day-trip", "tag-trains"}},
	{"The bakery next to %s sells yesterday's bread at half price after 18:00. You're welcome.", model.CategoryFood, []string{"tag-bakery", "tag-budget"}},
	{"Free language exchange meetup near %s every Tuesday. Beginners welcome, I checked.", model.CategoryEvents, []string{"tag-language", "tag-meetup"}},
	{"Short-term sublet available near %s, mid-month to mid-month, pets negotiable.", model.CategoryHousing, []string{"tag-sublet", "tag-pets"}},
	{"What's the etiquette for tipping around %s? Got very conflicting answers from locals.", model.CategoryHelp, []string{"tag-etiquette", "tag-tipping"}},
	{"The old quarter behind %s still has craftsmen working the same trades as a century ago.", model.CategoryCulture, []string{"tag-history", "tag-crafts"}},
}

// globalTemplates feed only the aggregate pool.
var globalTemplates = []template{
	{"Six months of slow travel later: pack half of what you think you need and twice the patience.", model.CategoryTravel, []string{"tag-slow-travel", "tag-packing"}},
	{"Comparing grocery prices across four countries this year was an education in itself.", model.CategoryFood, []string{"tag-groceries", "tag-cost-of-living"}},
	{"PSA: most national museums worldwide have one free day a month. Look it up before you pay.", model.CategoryCulture, []string{"tag-museums", "tag-free"}},
	{"Anyone attending the remote-work summit next quarter? Looking to share accommodation.", model.CategoryEvents, []string{"tag-conference", "tag-remote-work"}},
	{"Thread: how do you handle deposits when renting abroad without a local credit history?", model.CategoryHousing, []string{"tag-deposits", "tag-expat"}},
	{"What's the single best piece of advice you'd give someone moving countries for the first time?", model.CategoryHelp, []string{"tag-relocation", "tag-advice"}},
	{"Overnight trains are making a comeback and I am fully on board. Pun intended.", model.CategoryTravel, []string{"tag-trains", "tag-night-train"}},
	{"Started recreating dishes from every place I've lived. The spice shelf situation is out of control.", model.CategoryFood, []string{"tag-cooking", "tag-recipes"}},
	{"The best cultural experiences I've had were all free and none were in a guidebook.", model.CategoryCulture, []string{"tag-off-the-path"}},
	{"Global meetup day is coming up. Check if your city has a chapter, mine just started one.", model.CategoryEvents, []string{"tag-meetup", "tag-community"}},
	{"Furnished vs unfurnished when you move every year or two. Convince me either way.", model.CategoryHousing, []string{"tag-furniture", "tag-nomad"}},
	{"How do you keep up friendships across time zones? Asking for myself, honestly.", model.CategoryHelp, []string{"tag-friendship", "tag-timezones"}},
}

// regionLocations declares the known locations per region. The region's own
// country entry comes first.
var regionLocations = map[string][]model.Location{
	"jp": {
		{ID: "jp", Name: "Japan", Kind: model.LocationKindCountry},
		{ID: "tokyo", Name: "Tokyo", Kind: model.LocationKindCity},
		{ID: "kyoto", Name: "Kyoto", Kind: model.LocationKindCity},
		{ID: "fuji", Name: "Mount Fuji", Kind: model.LocationKindLandmark},
	},
	"fr": {
		{ID: "fr", Name: "France", Kind: model.LocationKindCountry},
		{ID: "paris", Name: "Paris", Kind: model.LocationKindCity},
		{ID: "lyon", Name: "Lyon", Kind: model.LocationKindCity},
		{ID: "louvre", Name: "The Louvre", Kind: model.LocationKindLandmark},
	},
	"br": {
		{ID: "br", Name: "Brazil", Kind: model.LocationKindCountry},
		{ID: "rio", Name: "Rio de Janeiro", Kind: model.LocationKindCity},
		{ID: "sao-paulo", Name: "São Paulo", Kind: model.LocationKindCity},
	},
	"th": {
		{ID: "th", Name: "Thailand", Kind: model.LocationKindCountry},
		{ID: "bangkok", Name: "Bangkok", Kind: model.LocationKindCity},
		{ID: "chiang-mai", Name: "Chiang Mai", Kind: model.LocationKindCity},
		{ID: "phuket", Name: "Phuket", Kind: model.LocationKindCity},
	},
}

// GlobalLocation is the location stamped on aggregate-only posts.
var GlobalLocation = model.Location{ID: model.RegionGlobal, Name: "Global", Kind: model.LocationKindAggregate}

var authorNames = []string{
	"Mila Torres",
	"Kenji Watanabe",
	"Aoife Byrne",
	"Tomás Oliveira",
	"Ingrid Halvorsen",
	"Priya Raman",
	"Marco Benedetti",
	"Suda Charoen",
	"Lena Okafor",
	"Gabriel Fontaine",
}

// Regions returns the ids of every region with declared locations.
func Regions() []string {
	return []string{"jp", "fr", "br", "th"}
}

// Locations returns the declared locations of a region, or nil.
func Locations(region string) []model.Location {
	return regionLocations[region]
}
