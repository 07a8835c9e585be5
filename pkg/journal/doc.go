/*
Package journal records tracker mutations and re-applies them to plain data.

A Recorder keeps an ordered, deep-copied log of everything a tracker reported and can dump it as
YAML. Apply and Replay execute recorded mutations against another value, which lets a consumer
keep a replica in sync (see Mirror) or rebuild a state from an initial snapshot and its log.
*/
package journal
