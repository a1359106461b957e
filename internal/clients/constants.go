package clients

const USER_AGENT = "tweelyzer-client/1.0 (+https://github.com/spacesedan/tweelyzer)"
