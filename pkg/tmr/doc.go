// Package tmr formats text meaning representations for display.
//
// A meaning graph ([Graph]) maps entity ids to attribute mappings, in
// document order. [Formatter.Format] turns one graph and the sentence it
// was derived from into an [Output]:
//
//  1. Tokenize the sentence into [Sentence] values of [Word] tokens.
//  2. Give every entity a distinct color ([AssignColors]).
//  3. Build one [Frame] per entity, splitting attributes into required
//     (upper-case keys), auxiliary (configured keys) and optional groups,
//     and collect the word highlights implied by sent-word-ind and
//     rejected-words.
//  4. Apply the highlights to the words.
//  5. Sort frames: modality, then events, then rejected words.
//  6. Attach constraint records to the required attributes they describe.
//
// Formatting never fails. Malformed values are stringified, references to
// missing words are skipped and unknown senses stay unresolved. Keys are
// compared after [NormalizeKey], so "sent_word_ind" and "SENT-WORD-IND"
// mean the same thing.
//
// A Formatter holds only immutable configuration and may be shared by
// goroutines. Every call builds its structures afresh.
package tmr
