// Reelmatch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

/*
Command reelmatch prepares datasets and answers recommendation queries
from the terminal.

	reelmatch download [-refresh] [-dir data/imdb]
	reelmatch reduce [-quantile 0.90] [-output data/movies_10.csv]
	reelmatch recommend [-dataset data/movies_10.csv] [-n 10] [title]

download fetches the IMDb non-commercial dataset files and decompresses
them. Files already present are skipped unless -refresh is given, in which
case the stored ETag is sent so unchanged files are not transferred again.

reduce joins the IMDb files with DuckDB, drops movies below the vote-count
quantile and writes the scored survivors as a dataset CSV, highest score first.

recommend builds an index over a dataset CSV and prints the most similar
titles. Without a title argument it asks for one on standard input. An
unknown title prints a message and exits with status 1.

Configuration is read the same way as the server: built-in defaults, then
the config file, then environment variables. Logs go to standard error.
*/
package main
