package dispatch

import (
	"fmt"
	"strings"

	"github.com/mbruegger/wallcast/internal/wallpaper"
)

var categoryBlurbs = map[wallpaper.Category]string{
	wallpaper.CategoryNature:    "Beautiful nature photography",
	wallpaper.CategoryAbstract:  "Modern abstract art design",
	wallpaper.CategorySpace:     "Stunning cosmic imagery",
	wallpaper.CategoryMinimal:   "Clean minimalist design",
	wallpaper.CategoryCyberpunk: "Futuristic neon aesthetics",
	wallpaper.CategorySunset:    "Breathtaking sunset views",
	wallpaper.CategoryMountains: "Majestic mountain landscapes",
	wallpaper.CategoryOcean:     "Serene ocean scenes",
	wallpaper.CategoryLandscape: "Stunning landscape photography",
	wallpaper.CategoryForest:    "Peaceful forest scenes",
	wallpaper.CategoryGalaxy:    "Amazing galaxy and nebula views",
	wallpaper.CategoryGeometric: "Clean geometric patterns",
	wallpaper.CategoryGradient:  "Smooth gradient backgrounds",
}

// Caption builds the channel post caption for a wallpaper found under
// category. channel is the public handle shown in the join line.
func Caption(category wallpaper.Category, src wallpaper.Source, channel string) string {
	tagify := strings.NewReplacer(" ", "", "-", "", "_", "")
	categoryTag := tagify.Replace(string(category))
	sourceTag := tagify.Replace(titleCase(string(src)))

	var b strings.Builder
	b.WriteString("📱 <b>Premium HD Mobile Wallpaper</b>\n\n")
	if blurb, ok := categoryBlurbs[category]; ok {
		fmt.Fprintf(&b, "🎨 <i>%s</i>\n\n", blurb)
	}
	fmt.Fprintf(&b, "#%s #%s #MobileWallpaper #HDWallpaper #WallpaperDaily\n\n", categoryTag, sourceTag)
	fmt.Fprintf(&b, "👉 Join %s for daily HD wallpapers", channel)
	return b.String()
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
