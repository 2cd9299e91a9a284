package augur

// Version is the release of the augur module.
const Version = "0.1.0"
