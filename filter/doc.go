// Package filter compiles user expressions that a selected movie must satisfy.
//
// Expressions use the expr language and see the detailed movie record:
//
//	Year >= 1990 and Runtime < 120 and hasGenre("Comédia")
//	Rating > 7.5 and Votes > 1000 and Language == "pt"
//	not containsText(Title, "christmas") and Status == "Released"
//
// Available fields are Title, OriginalTitle, Overview, Tagline, Year, Runtime,
// Rating, Votes, Popularity, Language, Genres, GenreIDs, Status, Adult, IMDBID
// and TMDBID. Helpers are hasGenre, hasGenreID, containsText, hasPrefix,
// hasSuffix, lower, upper and yearsSince. Text helpers ignore case.
package filter
