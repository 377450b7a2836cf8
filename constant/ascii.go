package constant

// AsciiArtLogo is the application's banner shown in the root command help.
const AsciiArtLogo = `
   _____ _                                     _
  / ____| |                                   | |
 | |    | |__   __ _ _ __  ___  ___ ___  _   _| |_
 | |    | '_ \ / _' | '_ \/ __|/ __/ _ \| | | | __|
 | |____| | | | (_| | | | \__ \ (_| (_) | |_| | |_
  \_____|_| |_|\__,_|_| |_|___/\___\___/ \__,_|\__|
`
