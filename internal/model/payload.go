package model

// Keys of the notification payload exchanged between the scheduler and the
// delivery handler.
const (
	PayloadMessageID = "messageId"
	PayloadContactID = "contactId"
	PayloadContent   = "content"
	PayloadAvatarID  = "avatarId"
	PayloadSoundFile = "soundFile"
)
