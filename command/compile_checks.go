package command

import gocmd "github.com/goliatone/go-command"

var (
	_ gocmd.Commander[RegisterAppMessage]  = (*RegisterAppCommand)(nil)
	_ gocmd.Commander[DeleteAppMessage]    = (*DeleteAppCommand)(nil)
	_ gocmd.Commander[RefreshTokenMessage] = (*RefreshTokenCommand)(nil)
	_ gocmd.Commander[AddServiceMessage]   = (*AddServiceCommand)(nil)
	_ gocmd.Commander[ResetAppsMessage]    = (*ResetAppsCommand)(nil)
)
