package insights

import (
	"strings"

	"github.com/JonnyWalker81/yearinmotion/internal/models"
)

var monthRoasts = [12]string{
	`January: The month of broken resolutions. This {value}km "run" lasted longer than your gym membership.`,
	`February: It's the shortest month, but you still found a way to make this {value}km effort even shorter.`,
	`March: Spring is coming, but your fitness is still hibernating based on this {value}km stroll.`,
	`April: April Fools! Oh wait, this {value}km entry isn't a joke? My bad.`,
	`May: Flowers are blooming, but your pace is wilting. {value}km? Pull yourself together.`,
	`June: Sun's out, but you're still indoors? This {value}km shuffle is basically a glorified walk to the kitchen.`,
	`July: Too hot to run? This {value}km effort suggests you spent more time looking for shade than moving.`,
	`August: The "Dog Days" of summer. Honestly, I've seen pugs with better endurance than this {value}km trip.`,
	`September: Back to school? Clearly you need a lesson in distance. {value}km is barely a warm-up.`,
	`October: Spooky season! What's scarier than a ghost? Your {value}km split times.`,
	`November: Preparing for Turkey Day? You're already moving like a stuffed bird with this {value}km crawl.`,
	`December: Holiday spirit! You gave yourself the gift of absolute laziness with this {value}km "activity".`,
}

const fallbackRoast = `A whopping {value}km? Did you just run to the mailbox and back?`

// MonthlyRoast mocks the shortest activity of a month. monthIndex is
// zero-based; anything outside 0..11 gets the generic line.
func MonthlyRoast(a models.Activity, monthIndex int) string {
	template := fallbackRoast
	if monthIndex >= 0 && monthIndex < len(monthRoasts) {
		template = monthRoasts[monthIndex]
	}
	return strings.ReplaceAll(template, placeholderValue, oneDecimal(a.Distance.Value/metersPerKm))
}
