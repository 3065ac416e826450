package app

import (
	"math/rand"
)

var motivationalMessages = []string{
	"🔥 Great job, keep it up!",
	"💪 Excellent progress! Stay on track!",
	"🌟 Proud of your commitment — stay strong next week too!",
	"🚀 Well done! Better every single day!",
	"🌈 Your discipline and persistence are admirable!",
	"🏆 Amazing! Be proud of yourself!",
	"📚🎯 Today's practice is tomorrow's success!",
}

// Motivate returns a random motivational message.
func Motivate() string {
	return motivationalMessages[rand.Intn(len(motivationalMessages))]
}
