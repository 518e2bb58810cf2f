/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the SlotDeck project.
 * This code is provided "as is", without warranty of any kind.
 */

package spec

const (
	// === IDENTITY & VERSIONING ===
	AppName      = "SlotDeck"
	VersionMajor = 1
	VersionMinor = 0

	// === INBOUND CONTROL ADDRESSES ===
	AddrLoad       = "/load"
	AddrLoadFolder = "/loadfolder"
	AddrPlay       = "/play"
	AddrStop       = "/stop"
	AddrPause      = "/pause"
	AddrSetSpeed   = "/setspeed"
	AddrScrub      = "/scrub"
	AddrScrubAbs   = "/scrubabs"
	AddrSetPos     = "/setpos"
	AddrSetTime    = "/settime"
	AddrDump       = "/dump"
	AddrQuit       = "/quit"
	AddrResize     = "/resize"

	// === OUTBOUND TELEMETRY ADDRESSES ===
	// /play and /stop are shared with the inbound set.
	AddrClipInfo = "/clipinfo"

	// === ENGINE DEFAULTS ===
	DefaultSlots     = 100
	DefaultOSCPort   = 30003
	DefaultFrameRate = 60
	DefaultOutHost   = "127.0.0.1"
	DefaultSocket    = "/tmp/slotdeck.sock"
	DefaultWidth     = 1280
	DefaultHeight    = 720
	InboxLimit       = 1024

	// A clip shorter than this is unusable.
	MinClipDuration = 0.001
	// Position reports closer than this to the last one are not re-sent.
	TelemetryEpsilon = 1e-7
	// Folder entries must have their '_' before this offset.
	MaxSlotPrefix = 100

	// === AUDIO CUE CLIPS ===
	AudioDeviceRate = 48000
	AudioFrameRate  = 25
	ResampleQuality = 4
)

// VideoExtensions are the container formats accepted by /loadfolder.
var VideoExtensions = []string{"mp4", "mkv", "mpg", "avi", "ogv", "m4v", "mov"}

// AudioExtensions are played through the speaker instead of the video backend.
var AudioExtensions = []string{"wav", "mp3"}

// Manual is printed by `slotdeck -m` and `slotctl help`.
const Manual = `Messages accepted (OSC, IPC lines, MQTT JSON):

/load slot:int path:str
    * Load a clip at the given slot

/loadfolder path:str
    * Load every NNN_descr.ext clip of a folder into slot NNN

/play slot:int [speed:float=1] [starttime:float=0] [paused:int=0] [stopWhenFinished:int=1] [stopPrevious:int=0]
    * Play the given slot with given speed, starting at starttime (secs)
      paused: if 1, the playback will be paused
      stopWhenFinished: if 1, playback will stop at the end, otherwise it
        pauses at the last frame
      stopPrevious: if 1, the current slot is stopped first

/stop [slot:int]
    * Stop playback. If no slot is given, the current slot is stopped

/pause state:int
    * If state 1, pause playback, 0 resumes playback

/setspeed speed:float
    * Change the speed of the current slot

/scrub pos:float [slot:int=current]
    * Set the relative position 0-1. Sets the given slot as the current slot.
      In scrub mode the clip is paused and must be driven externally

/scrubabs timepos:float [slot:int=current]
    * Set the absolute time and activate the given slot (scrub mode)

/setpos pos:float
    * Set the relative (0-1) position of the current clip (does not pause it)

/settime timepos:float
    * Set the absolute position of the current clip (does not pause it)

/dump
    * Dump information about loaded clips

/resize width:int height:int
    * Notify a new viewport size

/quit
    * Quit this application

Telemetry sent:

/clipinfo slot:int path:str duration:float
/play slot:int time:float duration:float
/stop slot:int

Console shortcuts (slotctl):

d    - /dump
q    - leave the console
help - this manual
`
