package wallpaper

import "time"

// Source identifies an upstream wallpaper provider.
type Source string

const (
	SourcePexels    Source = "pexels"
	SourceUnsplash  Source = "unsplash"
	SourceWallhaven Source = "wallhaven"
)

// Sources returns all providers in fixed rotation order.
func Sources() []Source {
	return []Source{SourcePexels, SourceUnsplash, SourceWallhaven}
}

// ParseSource maps a stored source name back to a Source. Unknown names
// fall back to Pexels so stale persisted state never breaks a run.
func ParseSource(s string) Source {
	switch Source(s) {
	case SourcePexels, SourceUnsplash, SourceWallhaven:
		return Source(s)
	}
	return SourcePexels
}

// Category is a topic tag used to diversify search queries.
type Category string

const (
	CategoryNature       Category = "nature"
	CategoryAbstract     Category = "abstract"
	CategoryAnime        Category = "anime"
	CategoryCity         Category = "city"
	CategoryTechnology   Category = "technology"
	CategoryMinimal      Category = "minimal"
	CategoryDark         Category = "dark"
	CategoryLandscape    Category = "landscape"
	CategoryNeon         Category = "neon"
	CategoryAesthetic    Category = "aesthetic"
	CategoryGradient     Category = "gradient"
	CategoryMountains    Category = "mountains"
	CategoryNight        Category = "night"
	CategoryForest       Category = "forest"
	CategorySpace        Category = "space"
	CategoryCars         Category = "cars"
	CategoryDesign       Category = "design"
	CategorySunset       Category = "sunset"
	CategoryOcean        Category = "ocean"
	CategorySky          Category = "sky"
	CategoryClouds       Category = "clouds"
	CategoryFlowers      Category = "flowers"
	CategoryArchitecture Category = "architecture"
	CategoryUrban        Category = "urban"
	CategoryVintage      Category = "vintage"
	CategoryGeometric    Category = "geometric"
	CategoryColorful     Category = "colorful"
	CategoryMonochrome   Category = "black and white"
	CategoryArtistic     Category = "artistic"
	CategoryFuturistic   Category = "futuristic"
	CategoryGalaxy       Category = "galaxy"
	CategoryBeach        Category = "beach"
	CategoryWinter       Category = "winter"
	CategoryAutumn       Category = "autumn"
	CategorySpring       Category = "spring"
	CategorySummer       Category = "summer"
	CategoryMacro        Category = "macro"
	CategoryStreet       Category = "street"
	CategoryCyberpunk    Category = "cyberpunk"
	CategoryDigitalArt   Category = "digital art"
	CategoryTextures     Category = "textures"
	CategoryPatterns     Category = "patterns"
	CategoryWater        Category = "water"
	CategoryFire         Category = "fire"
	CategoryLightning    Category = "lightning"
	CategoryCrystals     Category = "crystals"
	CategoryGlass        Category = "glass"
	CategoryMetal        Category = "metal"
	CategoryWood         Category = "wood"
	CategoryStone        Category = "stone"
)

// SafeCategories is the curated subset used by the acquisition loop. It is
// biased toward content statistically unlikely to trip the exclusion filter
// (no people, no animals, no signage).
func SafeCategories() []Category {
	return []Category{
		// Nature & landscapes
		CategoryNature, CategoryLandscape, CategoryMountains, CategoryForest,
		CategoryOcean, CategoryWater, CategorySky, CategoryClouds, CategorySunset,
		CategoryBeach,
		// Abstract & minimal
		CategoryAbstract, CategoryMinimal, CategoryGeometric, CategoryGradient,
		CategoryPatterns,
		// Space
		CategorySpace, CategoryGalaxy,
		// Seasonal
		CategoryWinter, CategoryAutumn, CategorySpring, CategorySummer,
		// Materials & textures
		CategoryTextures, CategoryCrystals, CategoryGlass, CategoryMetal,
		CategoryWood, CategoryStone,
		// Atmospheric
		CategoryDark, CategoryNight, CategoryFire, CategoryLightning,
		// Architecture & tech
		CategoryArchitecture, CategoryUrban, CategoryTechnology,
		CategoryFuturistic, CategoryNeon,
		// Art styles
		CategoryDigitalArt, CategoryArtistic, CategoryColorful, CategoryMonochrome,
	}
}

// Wallpaper is a candidate image returned by an upstream source, before
// dedup and content filtering.
type Wallpaper struct {
	URL         string
	Width       int
	Height      int
	Source      Source
	Description string
	Author      string
	Tags        []string
}

// AspectRatio returns height/width, or 0 for a degenerate width.
func (w Wallpaper) AspectRatio() float64 {
	if w.Width <= 0 {
		return 0
	}
	return float64(w.Height) / float64(w.Width)
}

// MobileFriendly reports whether the image suits a portrait phone screen.
func (w Wallpaper) MobileFriendly() bool {
	return w.AspectRatio() >= 1.2 && w.Height >= 800
}

// SentRecord tracks a wallpaper that was successfully delivered to the
// channel. Records are keyed by URL and never mutated after creation.
type SentRecord struct {
	URL       string    `json:"url"`
	Hash      string    `json:"hash"`
	Source    Source    `json:"source"`
	SentAt    time.Time `json:"sent_at"`
	Query     string    `json:"query"`
	ChannelID string    `json:"channel_id"`
}
