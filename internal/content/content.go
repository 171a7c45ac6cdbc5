// Package content holds the static wedding info texts keyed by topic. The
// same keys back both the inline-keyboard callbacks and the slash commands.
package content

import (
	"strings"
)

const UnknownOption = "Unknown option"

// Popup texts are kept short: callback answers are capped at 200 characters.
var topics = map[string]string{
	"venue": `🏛️ Park Royal Marina
📍 6 Raffles Blvd, Singapore 039594, Level 5 Atrium Ballroom
🚗 Marina Square parking (coupons available)`,

	"schedule": `📅 27 Sep 2025
🍸 6:30 PM Cocktail
🍽️ 7:15 PM To be Seated
🌙 10:40 PM End
🎉 11:00 PM Afterparty @ OSG Suntec`,

	"transport": `🚇 MRT: Esplanade Station (4 min walk)
🚗 Taxi: Park Royal Marina Hotel Lobby
🅿️ Marina Square parking (coupons available)
📍 Afterparty @OSG Suntec: Postal Code 038983`,

	"menu": `🍽️ 8-Course Chinese Menu / Halal Menu
🥂 Cocktail: Canapés + free flow drinks
🍾 Drinks: Free flow beer, wine, and soft drinks`,

	"contact": `📞 CONTACTS
👰 Jaz: @jaztww
🤵 Paul: @ywp_88
👧 Ching Yee (OIC): @chingyljy
👦 Samuel (2IC): @butterandink
👦 Zen (Emcee): @zenzcky`,

	"help": `8️⃣8️⃣8️⃣ Bring $2 or $10 notes for lucky draw! The more you bring, the more ballots you have ;)`,
}

// Lookup returns the info text for a topic key.
func Lookup(key string) (string, bool) {
	s, ok := topics[key]
	return s, ok
}

// Ack is the short fallback acknowledgment used when the full popup answer
// could not be delivered.
func Ack(key string) string {
	if key == "" {
		return "✅ Info sent!"
	}
	return "✅ " + strings.ToUpper(key[:1]) + key[1:] + " info sent!"
}

const Welcome = `Welcome to Paul and Jaz's wedding group! 👋

Here's all the wedding information for **Paul & Jaz's Wedding** on **27 September 2025**.

💡 Click any button below for instant information!`

const MilestoneWelcome = `🎉 **Welcome to Paul and Jaz's wedding group!**

We're so excited to celebrate with all of you on **27 September 2025**.

💡 Click any button below for wedding information:

*Use ` + "`/start`" + ` anytime to see these buttons again!*`

const WeekBeforeReminder = `📅 **One Week Until Paul & Jaz's Wedding!** 🎉

The big day is almost here! Don't forget:
• Confirm your attendance
• Check the venue location
• Plan your outfit
• Arrange transportation

Use /start for all wedding details! 💒`

const DayBeforeReminder = `🎊 **Tomorrow is Paul & Jaz's Wedding Day!** 💒

Final reminders:
• Cocktail reception starts at 6:30 PM
• Venue: Park Royal Marina, Level 5 Atrium Ballroom
• Arrive early for photos
• Afterparty at OSG Suntec at 11 PM

See you tomorrow! ✨`

const DayOfReminder = `🎉 **IT'S WEDDING DAY!** 💒✨

Paul & Jaz's special day is here!

📍 Park Royal Marina, Level 5 Atrium Ballroom
⏰ 6:30 PM - Cocktail Reception
🎊 Ready to celebrate? See you there!

Use the buttons below for last-minute details:`
