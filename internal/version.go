package internal

// Version is the bag release version
const Version = "0.3.0"
