// Package lowcodegen turns a YAML description of a low-code application
// module (entities, enumerations, microflows, pages, security roles and
// workflows) into platform XML artifacts with per-kind summaries.
//
// The root package offers convenience constructors; the building blocks live
// under pkg/: config loading, generator builders, the XML serializer, the file
// emitter, summaries, the orchestrator, the packager and the validator.
package lowcodegen
