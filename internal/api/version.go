package api

// EngineVersion identifies the session engine build. Bump on changes
// to scoring formulas or content generation so recorded scores stay
// comparable.
const EngineVersion = "arcade-engine-1.0.0"
