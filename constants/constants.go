package constants

import "os"

func GetMelodyDir() string {
	path := os.Getenv("MELODY_PATH")
	if path != "" {
		return path
	}
	return "./src"
}

func GetSoundFont() string {
	return os.Getenv("MARKOV_SOUNDFONT")
}

func GetConfigPath() string {
	path := os.Getenv("MARKOV_CONFIG")
	if path != "" {
		return path
	}
	return "markovmidi.yaml"
}

const DefaultSampleRate = 44100

const DefaultPortName = "markovmidi"

const DefaultAddr = ":8080"
