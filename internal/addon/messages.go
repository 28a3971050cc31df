package addon

// User-facing messages, kept together for translation
const (
	msgPromptTitle      = "Enter Your Callsign"
	msgPromptText       = "Please enter your callsign:"
	msgUnknownCommand   = "Unknown command %s. Type help for the list of commands."
	msgTimerStarted     = "%s timer started."
	msgTimerRunning     = "The timer is already running."
	msgTimerStopped     = "Timer stopped."
	msgTimerIdle        = "No timer is running."
	msgTimerRemaining   = "%d:%02d remaining on the timer."
	msgDatabaseDisabled = "The local DMR ID database is disabled."
	msgNoDMRID          = "No DMR ID found for %s."
	msgSyncStarted      = "Updating the DMR ID database."
	msgSyncFailed       = "The DMR ID database update failed."
	msgSyncDone         = "DMR ID database updated: %d operators."
)
